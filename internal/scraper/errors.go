package scraper

import "fmt"

// NavigationError reports a scan step whose expected control never appeared
// or could not be operated. It aborts the scan.
type NavigationError struct {
	Step string
	Err  error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *NavigationError) Unwrap() error {
	return e.Err
}

// ParseError reports calendar title text that does not match the expected layout.
type ParseError struct {
	Text   string
	Layout string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("calendar title %q does not match %q: %v", e.Text, e.Layout, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
