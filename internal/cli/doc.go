// Package cli implements the slotwatch command.
//
// The root command loads configuration, launches Chrome, runs one availability
// scan, prints the report and sends it to every configured notification
// channel. The browser session is owned by Run and closed on every exit path.
package cli
