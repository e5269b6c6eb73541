package linkmeta

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidURL is returned before any I/O when the target is not an absolute http(s) URL.
	ErrInvalidURL = errors.New("invalid url")

	// ErrTimeout is wrapped by a FetchError when the exchange exceeds its time budget.
	ErrTimeout = errors.New("fetch timed out")

	// ErrBodyTooLarge is wrapped by a FetchError when the body exceeds the size cap.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrUnexpectedStatus is wrapped by a FetchError for non-2xx responses.
	ErrUnexpectedStatus = errors.New("unexpected status")

	// ErrBusy is returned when the fetch queue is full.
	ErrBusy = errors.New("fetch queue full")

	// ErrStopped is returned when submitting to a stopped pool.
	ErrStopped = errors.New("fetch pool stopped")
)

// FetchError reports a failure of the remote side: network error, timeout,
// bad status or oversized body. It is never caused by the caller's input.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Timeout reports whether the fetch ran out of time.
func (e *FetchError) Timeout() bool { return errors.Is(e.Err, ErrTimeout) }
