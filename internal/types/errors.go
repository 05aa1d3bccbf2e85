package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrControlNotFound = errors.New("control could not be located by any rule")
	ErrStageTimeout    = errors.New("stage wait expired")
	ErrNoCards         = errors.New("no result cards appeared")
	ErrNoOffers        = errors.New("no offers extracted, selectors may be stale")
	ErrInvalidDate     = errors.New("invalid date, expected YYYY-MM-DD")
)

// StageError reports a failure in one stage of the form sequencer. The
// orchestrator matches on it to escalate to direct-URL navigation instead of
// aborting the session.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("form stage %q failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// ExtractError wraps failures while assembling offers from the results page.
type ExtractError struct {
	URL string
	Err error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract error for %s: %v", e.URL, e.Err)
}

func (e *ExtractError) Unwrap() error { return e.Err }

// StorageError wraps errors from a storage backend.
type StorageError struct {
	Backend string
	Err     error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
