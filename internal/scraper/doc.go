// Package scraper drives the municipal reservation site to find open gym slots.
//
// The scan opens the site's facility search, anchors the target date through the
// primary facility's reservation calendar, then switches the facility dropdown
// for every secondary facility. Calendar navigation and both detection procedures
// read the page through a browser.Session; availability is decided by parsing a
// DOM snapshot with goquery and counting "予約可能" markers in the facility's
// gym row. Waits after state-changing clicks poll a readiness condition where one
// exists and fall back to a fixed settle delay where the site gives no signal.
package scraper
