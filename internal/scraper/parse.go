package scraper

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// CalendarTitleLayout matches the calendar heading, e.g. "2026年10月".
const CalendarTitleLayout = "2006年1月"

type rowPick int

const (
	firstRow rowPick = iota
	lastRow
)

// parseCalendarTitle extracts the year and month the calendar is showing.
func parseCalendarTitle(text string) (int, time.Month, error) {
	t, err := time.Parse(CalendarTitleLayout, strings.TrimSpace(text))
	if err != nil {
		return 0, 0, &ParseError{Text: text, Layout: CalendarTitleLayout, Err: err}
	}
	return t.Year(), t.Month(), nil
}

// reserveButtonIndex finds the reservation control for a facility row.
// Search results list each facility as a row whose name cell is preceded by
// the cell holding its button. A facility may be listed more than once, so
// ordinal picks among the matching buttons (negative counts from the end).
// The returned index is the button's position among every element matching
// buttonSel, which is what Session.ClickNth expects.
func reserveButtonIndex(r io.Reader, buttonSel, name string, ordinal int) (int, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, fmt.Errorf("parsing HTML: %w", err)
	}

	matches := make([]int, 0)
	doc.Find(buttonSel).Each(func(i int, btn *goquery.Selection) {
		cell := btn.Closest("td")
		if cell.Length() == 0 {
			return
		}
		named := cell.NextAllFiltered("td").FilterFunction(func(_ int, td *goquery.Selection) bool {
			return strings.Contains(ownText(td), name)
		})
		if named.Length() > 0 {
			matches = append(matches, i)
		}
	})

	idx := ordinal
	if idx < 0 {
		idx = len(matches) + idx
	}
	if idx < 0 || idx >= len(matches) {
		return 0, fmt.Errorf("no reservation button #%d for %q (%d found)", ordinal, name, len(matches))
	}
	return matches[idx], nil
}

// rowSlots counts slotSel elements inside the first or last table row whose
// text contains any of markers. found is false when no row matches.
func rowSlots(r io.Reader, markers []string, pick rowPick, slotSel string) (count int, found bool, err error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return 0, false, fmt.Errorf("parsing HTML: %w", err)
	}

	rows := doc.Find("tr").FilterFunction(func(_ int, tr *goquery.Selection) bool {
		return containsAny(tr.Text(), markers)
	})
	if rows.Length() == 0 {
		return 0, false, nil
	}

	row := rows.First()
	if pick == lastRow {
		row = rows.Last()
	}
	return row.Find(slotSel).Length(), true, nil
}

// ownText returns the text of sel's direct text-node children only.
func ownText(sel *goquery.Selection) string {
	var b strings.Builder
	sel.Contents().Each(func(_ int, c *goquery.Selection) {
		if n := c.Get(0); n != nil && n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
	})
	return b.String()
}

func containsAny(text string, markers []string) bool {
	for _, m := range markers {
		if m != "" && strings.Contains(text, m) {
			return true
		}
	}
	return false
}
