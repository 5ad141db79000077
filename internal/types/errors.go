package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes.
var (
	ErrElementNotFound  = errors.New("element not found")
	ErrInvalidSelector  = errors.New("invalid selector")
	ErrModelLoad        = errors.New("sentiment model could not be loaded")
	ErrEmptyModelOutput = errors.New("sentiment model returned no classes")
	ErrUnknownLabel     = errors.New("unrecognised class label")
	ErrBlocked          = errors.New("page is a captcha or robot check")
)

// BrowserError wraps failures from the browser driver. They are fatal to a run.
type BrowserError struct {
	Op       string
	Selector string
	Err      error
}

func (e *BrowserError) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("browser %s (selector=%q): %v", e.Op, e.Selector, e.Err)
	}
	return fmt.Sprintf("browser %s: %v", e.Op, e.Err)
}

func (e *BrowserError) Unwrap() error { return e.Err }

// FetchError wraps errors that occur while fetching a page over HTTP.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch error for %s (status %d): %v", e.URL, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch error for %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError wraps errors that occur while extracting text from HTML.
type ParseError struct {
	Selector string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error (selector=%q): %v", e.Selector, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ScoreError wraps model load and inference failures.
type ScoreError struct {
	Text string
	Err  error
}

func (e *ScoreError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("score error: %v", e.Err)
	}
	preview := e.Text
	if len(preview) > 40 {
		preview = preview[:40] + "..."
	}
	return fmt.Sprintf("score error for %q: %v", preview, e.Err)
}

func (e *ScoreError) Unwrap() error { return e.Err }

// StorageError wraps errors that occur while persisting results.
type StorageError struct {
	Backend string
	Path    string
	Err     error
}

func (e *StorageError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("storage error (%s, %s): %v", e.Backend, e.Path, e.Err)
	}
	return fmt.Sprintf("storage error (%s): %v", e.Backend, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
