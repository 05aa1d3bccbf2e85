package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"farescout/internal/types"
)

// rows flattens the offer set into header + records. Query parameters are
// prefixed as constant leading columns on every row; the return_date column
// exists only when a return date was requested. An unknown duration
// serializes as a blank cell.
func rows(q types.SearchQuery, offers []types.FlightOffer) ([]string, [][]string) {
	header := []string{"origin", "destination", "departure_date"}
	if q.RoundTrip() {
		header = append(header, "return_date")
	}
	header = append(header,
		"departure_time", "arrival_time", "airline",
		"price", "price_display", "connection_info",
		"duration", "duration_minutes",
	)

	records := make([][]string, 0, len(offers))
	for _, o := range offers {
		row := []string{q.Origin, q.Destination, q.DepartureDate.Format(types.DateFormat)}
		if q.RoundTrip() {
			row = append(row, q.ReturnDate.Format(types.DateFormat))
		}
		minutes := ""
		if o.DurationMinutes > 0 {
			minutes = strconv.Itoa(o.DurationMinutes)
		}
		row = append(row,
			o.DepartureTime, o.ArrivalTime, o.Airline,
			strconv.FormatFloat(o.Price, 'f', -1, 64), o.PriceDisplay, o.ConnectionInfo,
			o.Duration, minutes,
		)
		records = append(records, row)
	}
	return header, records
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return nil
}

// --- CSV Storage ---

// CSVStorage writes the offer set as CSV, fully overwriting the destination.
type CSVStorage struct {
	path   string
	logger *slog.Logger
}

// NewCSVStorage creates a CSV file storage.
func NewCSVStorage(outputPath string, logger *slog.Logger) *CSVStorage {
	return &CSVStorage{
		path:   outputPath,
		logger: logger.With("component", "csv_storage"),
	}
}

func (s *CSVStorage) Name() string { return "csv" }

func (s *CSVStorage) Write(ctx context.Context, q types.SearchQuery, offers []types.FlightOffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ensureDir(s.path); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header, records := rows(q, offers)
	if err := w.Write(header); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("write header: %w", err)}
	}
	if err := w.WriteAll(records); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("write rows: %w", err)}
	}

	s.logger.Info("CSV written", "path", s.path, "offers", len(offers))
	return nil
}

func (s *CSVStorage) Close() error { return nil }

// --- JSON Storage ---

// JSONStorage writes the offer set as a JSON array of row objects with the
// same columns as the CSV output.
type JSONStorage struct {
	path   string
	logger *slog.Logger
}

// NewJSONStorage creates a JSON file storage.
func NewJSONStorage(outputPath string, logger *slog.Logger) *JSONStorage {
	return &JSONStorage{
		path:   outputPath,
		logger: logger.With("component", "json_storage"),
	}
}

func (s *JSONStorage) Name() string { return "json" }

func (s *JSONStorage) Write(ctx context.Context, q types.SearchQuery, offers []types.FlightOffer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ensureDir(s.path); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}

	f, err := os.Create(s.path)
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Err: err}
	}
	defer f.Close()

	out := make([]map[string]any, 0, len(offers))
	for _, o := range offers {
		out = append(out, document(q, o))
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("encode JSON: %w", err)}
	}

	s.logger.Info("JSON written", "path", s.path, "offers", len(offers))
	return nil
}

func (s *JSONStorage) Close() error { return nil }

// document builds one output object; shared by the JSON and Mongo backends.
func document(q types.SearchQuery, o types.FlightOffer) map[string]any {
	doc := map[string]any{
		"origin":          q.Origin,
		"destination":     q.Destination,
		"departure_date":  q.DepartureDate.Format(types.DateFormat),
		"departure_time":  o.DepartureTime,
		"arrival_time":    o.ArrivalTime,
		"airline":         o.Airline,
		"price":           o.Price,
		"price_display":   o.PriceDisplay,
		"connection_info": o.ConnectionInfo,
		"duration":        o.Duration,
	}
	if q.RoundTrip() {
		doc["return_date"] = q.ReturnDate.Format(types.DateFormat)
	}
	if o.DurationMinutes > 0 {
		doc["duration_minutes"] = o.DurationMinutes
	}
	return doc
}
