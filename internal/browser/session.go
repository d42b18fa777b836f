package browser

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Session is an exclusively owned browser tab. Implementations are not safe
// for concurrent use.
type Session interface {
	// Navigate loads url in the top-level document.
	Navigate(ctx context.Context, url string) error

	// WaitFor blocks until selector matches an element or timeout elapses.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) error

	// Click activates the first element matching selector.
	Click(ctx context.Context, selector string) error

	// ClickNth activates the n-th element matching selector in document order.
	// Negative n counts from the end, so -1 is the last match.
	ClickNth(ctx context.Context, selector string, n int) error

	// Check ticks the checkbox matching selector if it is not already ticked.
	Check(ctx context.Context, selector string) error

	// SelectOption picks the option whose visible label equals label.
	SelectOption(ctx context.Context, selector, label string) error

	// Evaluate runs script as a function body with document bound to the
	// active document and stores its JSON-decoded return value in res.
	// res may be nil to discard the result.
	Evaluate(ctx context.Context, script string, res any) error

	// InnerText returns the rendered text of the first element matching selector.
	InnerText(ctx context.Context, selector string) (string, error)

	// Count returns how many elements currently match selector without waiting.
	Count(ctx context.Context, selector string) (int, error)

	// HTML returns the outer HTML of the active document.
	HTML(ctx context.Context) (string, error)

	// Sleep pauses for d or until ctx is done.
	Sleep(ctx context.Context, d time.Duration) error

	// Close releases the browser. It is safe to call more than once.
	Close() error
}

// ElementNotFoundError reports a selector that never matched.
type ElementNotFoundError struct {
	Selector string
	Index    int // set by ClickNth; -1 otherwise
	Err      error
}

func (e *ElementNotFoundError) Error() string {
	msg := fmt.Sprintf("element not found: %s", e.Selector)
	if e.Index >= 0 {
		msg = fmt.Sprintf("element not found: %s [%d]", e.Selector, e.Index)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ElementNotFoundError) Unwrap() error {
	return e.Err
}

func notFound(selector string, err error) error {
	return &ElementNotFoundError{Selector: selector, Index: -1, Err: err}
}

// nthIndex resolves a possibly negative index against count matches.
func nthIndex(n, count int) (int, bool) {
	if n < 0 {
		n = count + n
	}
	if n < 0 || n >= count {
		return 0, false
	}
	return n, true
}

// IsNotFound reports whether err is an ElementNotFoundError.
func IsNotFound(err error) bool {
	var nf *ElementNotFoundError
	return errors.As(err, &nf)
}
