// Package report turns a scan result into the message sent to people.
//
// A scan with at least one open facility produces a detailed message: the
// resolved date, the scan time and one line per facility in scan order. A scan
// with nothing open produces a terse two-line message without the date.
package report
