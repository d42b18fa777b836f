package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
)

const (
	DefaultTimeout = 30 * time.Second
	closeTimeout   = 10 * time.Second
)

// Options configures a Chrome launch.
type Options struct {
	Headless bool
	ExecPath string        // empty uses chromedp's lookup
	Frame    string        // name of the frame hosting the UI; empty scopes to the top document
	Timeout  time.Duration // upper bound for any single element wait
}

// ChromeSession drives a local Chrome through the DevTools protocol.
type ChromeSession struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cancelAlloc context.CancelFunc
	frame       string
	timeout     time.Duration
	closed      bool
}

// Launch starts Chrome and opens a blank tab.
func Launch(ctx context.Context, opts Options) (*ChromeSession, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", opts.Headless),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	// Run with no actions starts the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		cancel()
		cancelAlloc()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &ChromeSession{
		ctx:         browserCtx,
		cancel:      cancel,
		cancelAlloc: cancelAlloc,
		frame:       opts.Frame,
		timeout:     timeout,
	}, nil
}

// opContext derives an operation context from the browser context that is
// also cancelled when parent is.
func (s *ChromeSession) opContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	stop := context.AfterFunc(parent, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (s *ChromeSession) frameSelector() string {
	return fmt.Sprintf(`frame[name=%q], iframe[name=%q]`, s.frame, s.frame)
}

// documentExpr is a JavaScript expression for the active document.
func (s *ChromeSession) documentExpr() string {
	if s.frame == "" {
		return "document"
	}
	return fmt.Sprintf("document.querySelector(%s).contentDocument", jsString(s.frameSelector()))
}

// queryOpts resolves the frame node on every call because the frame's
// document is replaced whenever it navigates.
func (s *ChromeSession) queryOpts(ctx context.Context, extra ...chromedp.QueryOption) ([]chromedp.QueryOption, error) {
	opts := append([]chromedp.QueryOption{chromedp.ByQuery}, extra...)
	if s.frame == "" {
		return opts, nil
	}

	var frames []*cdp.Node
	if err := chromedp.Run(ctx, chromedp.Nodes(s.frameSelector(), &frames, chromedp.ByQuery)); err != nil {
		return nil, notFound(s.frameSelector(), err)
	}
	return append(opts, chromedp.FromNode(frames[0])), nil
}

func (s *ChromeSession) query(parent context.Context, timeout time.Duration, selector string, build func([]chromedp.QueryOption) chromedp.Action, extra ...chromedp.QueryOption) error {
	ctx, cancel := s.opContext(parent, timeout)
	defer cancel()

	opts, err := s.queryOpts(ctx, extra...)
	if err != nil {
		return err
	}
	if err := chromedp.Run(ctx, build(opts)); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return notFound(selector, err)
		}
		return err
	}
	return nil
}

// Navigate loads url and, when a frame is configured, waits for it to appear.
func (s *ChromeSession) Navigate(ctx context.Context, url string) error {
	opCtx, cancel := s.opContext(ctx, s.timeout)
	defer cancel()

	if err := chromedp.Run(opCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	if s.frame == "" {
		return nil
	}
	if err := chromedp.Run(opCtx, chromedp.WaitReady(s.frameSelector(), chromedp.ByQuery)); err != nil {
		return notFound(s.frameSelector(), err)
	}
	return nil
}

func (s *ChromeSession) WaitFor(ctx context.Context, selector string, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = s.timeout
	}
	return s.query(ctx, timeout, selector, func(opts []chromedp.QueryOption) chromedp.Action {
		return chromedp.WaitReady(selector, opts...)
	})
}

func (s *ChromeSession) Click(ctx context.Context, selector string) error {
	return s.query(ctx, s.timeout, selector, func(opts []chromedp.QueryOption) chromedp.Action {
		return chromedp.Click(selector, opts...)
	})
}

func (s *ChromeSession) ClickNth(ctx context.Context, selector string, n int) error {
	var nodes []*cdp.Node
	err := s.query(ctx, s.timeout, selector, func(opts []chromedp.QueryOption) chromedp.Action {
		return chromedp.Nodes(selector, &nodes, opts...)
	}, chromedp.ByQueryAll)
	if err != nil {
		return err
	}

	idx, ok := nthIndex(n, len(nodes))
	if !ok {
		return &ElementNotFoundError{Selector: selector, Index: n}
	}

	opCtx, cancel := s.opContext(ctx, s.timeout)
	defer cancel()
	if err := chromedp.Run(opCtx, chromedp.MouseClickNode(nodes[idx])); err != nil {
		return fmt.Errorf("clicking %s [%d]: %w", selector, n, err)
	}
	return nil
}

func (s *ChromeSession) Check(ctx context.Context, selector string) error {
	var checked bool
	err := s.query(ctx, s.timeout, selector, func(opts []chromedp.QueryOption) chromedp.Action {
		return chromedp.JavascriptAttribute(selector, "checked", &checked, opts...)
	})
	if err != nil {
		return err
	}
	if checked {
		return nil
	}
	return s.Click(ctx, selector)
}

func (s *ChromeSession) SelectOption(ctx context.Context, selector, label string) error {
	if err := s.WaitFor(ctx, selector, s.timeout); err != nil {
		return err
	}

	script := fmt.Sprintf(`const el = document.querySelector(%s);
if (!el) return false;
for (const opt of el.options) {
	if (opt.text.trim() === %s) {
		el.value = opt.value;
		return true;
	}
}
return false;`, jsString(selector), jsString(label))

	var selected bool
	if err := s.Evaluate(ctx, script, &selected); err != nil {
		return err
	}
	if !selected {
		return notFound(fmt.Sprintf("%s option %q", selector, label), nil)
	}
	return nil
}

func (s *ChromeSession) Evaluate(ctx context.Context, script string, res any) error {
	opCtx, cancel := s.opContext(ctx, s.timeout)
	defer cancel()

	expr := fmt.Sprintf("(function(document) {\n%s\n})(%s)", script, s.documentExpr())
	if res == nil {
		var raw *runtime.RemoteObject
		res = &raw
	}
	if err := chromedp.Run(opCtx, chromedp.Evaluate(expr, res)); err != nil {
		return fmt.Errorf("evaluating script: %w", err)
	}
	return nil
}

func (s *ChromeSession) InnerText(ctx context.Context, selector string) (string, error) {
	var text string
	err := s.query(ctx, s.timeout, selector, func(opts []chromedp.QueryOption) chromedp.Action {
		return chromedp.Text(selector, &text, opts...)
	})
	return text, err
}

func (s *ChromeSession) Count(ctx context.Context, selector string) (int, error) {
	var nodes []*cdp.Node
	err := s.query(ctx, s.timeout, selector, func(opts []chromedp.QueryOption) chromedp.Action {
		return chromedp.Nodes(selector, &nodes, opts...)
	}, chromedp.ByQueryAll, chromedp.AtLeast(0))
	return len(nodes), err
}

func (s *ChromeSession) HTML(ctx context.Context) (string, error) {
	var html string
	err := s.query(ctx, s.timeout, "html", func(opts []chromedp.QueryOption) chromedp.Action {
		return chromedp.OuterHTML("html", &html, opts...)
	})
	return html, err
}

func (s *ChromeSession) Sleep(ctx context.Context, d time.Duration) error {
	opCtx, cancel := s.opContext(ctx, d+s.timeout)
	defer cancel()
	return chromedp.Run(opCtx, chromedp.Sleep(d))
}

// Close shuts the browser down gracefully, then releases the allocator.
func (s *ChromeSession) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	ctx, cancel := context.WithTimeout(s.ctx, closeTimeout)
	defer cancel()
	err := chromedp.Cancel(ctx)
	s.cancel()
	s.cancelAlloc()

	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("closing browser: %w", err)
	}
	return nil
}

// jsString quotes s as a JavaScript string literal.
func jsString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
