package storage

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"farescout/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

func testQuery(roundTrip bool) types.SearchQuery {
	dep, _ := time.Parse(types.DateFormat, "2026-09-12")
	q := types.SearchQuery{
		Origin:        "İstanbul",
		Destination:   "Lefkoşa",
		DepartureDate: dep,
	}
	if roundTrip {
		ret, _ := time.Parse(types.DateFormat, "2026-09-19")
		q.ReturnDate = ret
	}
	return q
}

func testOffers() []types.FlightOffer {
	return []types.FlightOffer{
		{
			DepartureTime:   "08:00",
			ArrivalTime:     "09:20",
			Airline:         "Pegasus",
			Price:           1249.99,
			PriceDisplay:    "1.249,99 TL",
			ConnectionInfo:  "Non-stop",
			Duration:        "1 saat 20 dakika",
			DurationMinutes: 80,
		},
		{
			Airline:      "Unknown",
			Price:        999,
			PriceDisplay: "999 TL",
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	return records
}

func TestCSVWriteOneWay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "flights.csv")
	s := NewCSVStorage(path, testLogger)

	if err := s.Write(context.Background(), testQuery(false), testOffers()); err != nil {
		t.Fatalf("write: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	header := records[0]
	if header[0] != "origin" || header[1] != "destination" || header[2] != "departure_date" {
		t.Errorf("unexpected leading columns: %v", header[:3])
	}
	for _, h := range header {
		if h == "return_date" {
			t.Error("one-way output must not contain a return_date column")
		}
	}

	first := records[1]
	if first[0] != "İstanbul" || first[1] != "Lefkoşa" || first[2] != "2026-09-12" {
		t.Errorf("query columns not prefixed: %v", first[:3])
	}
	if first[len(first)-1] != "80" {
		t.Errorf("duration_minutes = %q, want 80", first[len(first)-1])
	}

	second := records[2]
	if second[len(second)-1] != "" {
		t.Errorf("unknown duration must serialize blank, got %q", second[len(second)-1])
	}
	// Query columns are constant across all rows.
	if second[0] != first[0] || second[1] != first[1] || second[2] != first[2] {
		t.Errorf("query columns differ across rows: %v vs %v", first[:3], second[:3])
	}
}

func TestCSVWriteRoundTripHasReturnColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.csv")
	s := NewCSVStorage(path, testLogger)

	if err := s.Write(context.Background(), testQuery(true), testOffers()); err != nil {
		t.Fatalf("write: %v", err)
	}

	records := readCSV(t, path)
	if records[0][3] != "return_date" {
		t.Errorf("expected return_date as 4th column, got %q", records[0][3])
	}
	if records[1][3] != "2026-09-19" {
		t.Errorf("return date cell = %q", records[1][3])
	}
}

func TestCSVWriteReplacesPriorContent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.csv")
	if err := os.WriteFile(path, []byte("stale,content\n1,2\n3,4\n5,6\n"), 0o644); err != nil {
		t.Fatalf("seed stale file: %v", err)
	}

	s := NewCSVStorage(path, testLogger)
	if err := s.Write(context.Background(), testQuery(false), testOffers()[:1]); err != nil {
		t.Fatalf("write: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 2 {
		t.Fatalf("expected full replacement (header + 1 row), got %d records", len(records))
	}
}

func TestJSONWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flights.json")
	s := NewJSONStorage(path, testLogger)

	if err := s.Write(context.Background(), testQuery(true), testOffers()); err != nil {
		t.Fatalf("write: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("empty JSON output")
	}
}
