// Package browser provides the browser-automation surface the scanner drives.
//
// Session is the small set of operations the scan needs: navigate, wait for an
// element, click, tick a checkbox, pick a dropdown option, evaluate a script,
// read text, count matches and snapshot the current document. ChromeSession
// implements it on top of chromedp and scopes every query to a named frame
// when the site renders its UI inside a frameset. FakeSession implements it
// over scripted HTML pages so callers can be tested without a browser.
package browser
