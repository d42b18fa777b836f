package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// FakeSession is a test double that evaluates selectors against a scripted
// HTML page. Every call is recorded in Actions, and hooks registered with On
// run after the matching action so tests can swap the page the way the real
// site re-renders after a click.
type FakeSession struct {
	// Actions records each call as "<verb> <selector>" in call order.
	Actions []string

	// Slept records every Sleep duration.
	Slept []time.Duration

	// Closed tracks if Close was called
	Closed bool

	// NavigateError, if set, is returned by Navigate.
	NavigateError error

	page  string
	doc   *goquery.Document
	hooks map[string]func(*FakeSession)
}

// NewFakeSession creates a FakeSession showing page.
func NewFakeSession(page string) *FakeSession {
	f := &FakeSession{hooks: make(map[string]func(*FakeSession))}
	f.SetPage(page)
	return f
}

// SetPage replaces the current document.
func (f *FakeSession) SetPage(page string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		// html.Parse accepts any input; this only fails on reader errors.
		panic(fmt.Sprintf("parsing fake page: %v", err))
	}
	f.page = page
	f.doc = doc
}

// On registers fn to run after action, e.g. On("click #next", ...).
func (f *FakeSession) On(action string, fn func(*FakeSession)) {
	f.hooks[action] = fn
}

// Performed returns how many times action was recorded.
func (f *FakeSession) Performed(action string) int {
	n := 0
	for _, a := range f.Actions {
		if a == action {
			n++
		}
	}
	return n
}

func (f *FakeSession) record(action string) {
	f.Actions = append(f.Actions, action)
	if fn, ok := f.hooks[action]; ok {
		fn(f)
	}
}

func (f *FakeSession) find(selector string) *goquery.Selection {
	return f.doc.Find(selector)
}

func (f *FakeSession) Navigate(ctx context.Context, url string) error {
	if f.NavigateError != nil {
		return f.NavigateError
	}
	f.record("navigate " + url)
	return nil
}

func (f *FakeSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.find(selector).Length() == 0 {
		return notFound(selector, context.DeadlineExceeded)
	}
	f.record("wait " + selector)
	return nil
}

func (f *FakeSession) Click(ctx context.Context, selector string) error {
	if f.find(selector).Length() == 0 {
		return notFound(selector, context.DeadlineExceeded)
	}
	f.record("click " + selector)
	return nil
}

func (f *FakeSession) ClickNth(ctx context.Context, selector string, n int) error {
	if _, ok := nthIndex(n, f.find(selector).Length()); !ok {
		return &ElementNotFoundError{Selector: selector, Index: n}
	}
	f.record(fmt.Sprintf("click[%d] %s", n, selector))
	return nil
}

func (f *FakeSession) Check(ctx context.Context, selector string) error {
	if f.find(selector).Length() == 0 {
		return notFound(selector, context.DeadlineExceeded)
	}
	f.record("check " + selector)
	return nil
}

func (f *FakeSession) SelectOption(ctx context.Context, selector, label string) error {
	options := f.find(selector).Find("option").FilterFunction(func(_ int, opt *goquery.Selection) bool {
		return strings.TrimSpace(opt.Text()) == label
	})
	if options.Length() == 0 {
		return notFound(fmt.Sprintf("%s option %q", selector, label), nil)
	}
	f.record(fmt.Sprintf("select %s=%s", selector, label))
	return nil
}

// Evaluate records the script; res is left untouched.
func (f *FakeSession) Evaluate(ctx context.Context, script string, res any) error {
	f.record("eval " + script)
	return nil
}

func (f *FakeSession) InnerText(ctx context.Context, selector string) (string, error) {
	sel := f.find(selector)
	if sel.Length() == 0 {
		return "", notFound(selector, context.DeadlineExceeded)
	}
	return sel.First().Text(), nil
}

func (f *FakeSession) Count(ctx context.Context, selector string) (int, error) {
	return f.find(selector).Length(), nil
}

func (f *FakeSession) HTML(ctx context.Context) (string, error) {
	return f.page, nil
}

func (f *FakeSession) Sleep(ctx context.Context, d time.Duration) error {
	f.Slept = append(f.Slept, d)
	return ctx.Err()
}

func (f *FakeSession) Close() error {
	f.Closed = true
	return nil
}
