package scraper

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/pfrederiksen/workday-ics/internal/reconcile"
	"github.com/pfrederiksen/workday-ics/internal/textnorm"
	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	DefaultCaption           = "My Enrolled Courses"
	DefaultCourseID          = "56$380280"
	DefaultMeetingPatternsID = "56$532392"
	DefaultStartDateID       = "56$435880"
	DefaultEndDateID         = "56$435879"
)

// ErrTableNotFound is returned when no table caption matches.
var ErrTableNotFound = errors.New("enrolled courses table not found")

var (
	tableSelector     = cascadia.MustCompile("table")
	captionSelector   = cascadia.MustCompile("caption")
	rowSelector       = cascadia.MustCompile("tbody tr")
	cellSelector      = cascadia.MustCompile("td")
	labelledSelector  = cascadia.MustCompile("[aria-label],[title]")
	inlineSelector    = cascadia.MustCompile("a,div,span")
	cellTextSelector  = cascadia.MustCompile("td div, td a, td span")
	metadataSelector  = cascadia.MustCompile("[data-metadata-id]")
	titleSelector     = cascadia.MustCompile("head title")
	termPattern       = regexp.MustCompile(`(?i)\b(Fall|Spring|Summer)\s+(\d{4})\b`)
	blockElementNames = map[string]bool{
		"address": true, "article": true, "br": true, "div": true, "h1": true,
		"h2": true, "h3": true, "h4": true, "h5": true, "h6": true, "li": true,
		"p": true, "section": true, "td": true, "th": true, "tr": true,
		"ul": true, "ol": true, "table": true,
	}
)

// Options addresses the table and its cells.
type Options struct {
	Caption           string
	CourseID          string
	MeetingPatternsID string
	StartDateID       string
	EndDateID         string
}

// DefaultOptions returns the identifiers used by the ISU Workday portal.
func DefaultOptions() Options {
	return Options{
		Caption:           DefaultCaption,
		CourseID:          DefaultCourseID,
		MeetingPatternsID: DefaultMeetingPatternsID,
		StartDateID:       DefaultStartDateID,
		EndDateID:         DefaultEndDateID,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Caption == "" {
		o.Caption = d.Caption
	}
	if o.CourseID == "" {
		o.CourseID = d.CourseID
	}
	if o.MeetingPatternsID == "" {
		o.MeetingPatternsID = d.MeetingPatternsID
	}
	if o.StartDateID == "" {
		o.StartDateID = d.StartDateID
	}
	if o.EndDateID == "" {
		o.EndDateID = d.EndDateID
	}
	return o
}

// Page is the text extracted from one saved page.
type Page struct {
	// Title is the document title.
	Title string
	// Term is the academic term named in the title, e.g. "Fall 2025", or
	// empty when the title names none.
	Term string
	Rows []reconcile.Row
}

// Scraper extracts enrollment rows from saved portal pages.
type Scraper struct {
	opts Options
}

// New creates a new Scraper. Empty option fields take their defaults.
func New(opts Options) *Scraper {
	return &Scraper{opts: opts.withDefaults()}
}

// Parse reads an HTML document and returns the text of every enrolled-course
// row. It returns ErrTableNotFound when the page has no matching table.
func (s *Scraper) Parse(r io.Reader) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	page := &Page{
		Title: textnorm.Normalize(doc.FindMatcher(titleSelector).First().Text()),
	}
	page.Term = GuessTerm(page.Title)

	table := s.coursesTable(doc)
	if table == nil {
		return nil, ErrTableNotFound
	}

	table.FindMatcher(rowSelector).Each(func(_ int, row *goquery.Selection) {
		if row.FindMatcher(cellSelector).Length() == 0 {
			return
		}
		page.Rows = append(page.Rows, s.extractRow(row))
	})

	return page, nil
}

// coursesTable finds the table whose caption equals the configured caption,
// falling back to the first caption that merely contains it.
func (s *Scraper) coursesTable(doc *goquery.Document) *goquery.Selection {
	want := strings.ToLower(textnorm.Normalize(s.opts.Caption))

	var exact, partial *goquery.Selection
	doc.FindMatcher(tableSelector).EachWithBreak(func(_ int, t *goquery.Selection) bool {
		caption := strings.ToLower(textnorm.Normalize(t.FindMatcher(captionSelector).First().Text()))
		switch {
		case caption == want:
			exact = t
			return false
		case partial == nil && strings.Contains(caption, want):
			partial = t
		}
		return true
	})

	if exact != nil {
		return exact
	}
	return partial
}

func (s *Scraper) extractRow(row *goquery.Selection) reconcile.Row {
	var r reconcile.Row

	r.Cells = row.FindMatcher(cellSelector).Map(func(_ int, td *goquery.Selection) string {
		return textnorm.Normalize(innerText(td))
	})

	r.Title = visibleText(s.cell(row, s.opts.CourseID))

	if mp := s.cell(row, s.opts.MeetingPatternsID); mp.Length() > 0 {
		mp.FindMatcher(labelledSelector).Each(func(_ int, n *goquery.Selection) {
			if v := labelOf(n); v != "" {
				r.MeetingAttrs = append(r.MeetingAttrs, v)
			}
		})
		r.MeetingText = visibleText(mp)
	}

	r.Descendants = row.FindMatcher(inlineSelector).Map(func(_ int, n *goquery.Selection) string {
		return visibleText(n)
	})

	r.StartDateText = dateCellText(s.cell(row, s.opts.StartDateID))
	r.EndDateText = dateCellText(s.cell(row, s.opts.EndDateID))

	r.DateTexts = row.FindMatcher(cellTextSelector).Map(func(_ int, n *goquery.Selection) string {
		if text := textnorm.Normalize(n.Text()); text != "" {
			return text
		}
		return textnorm.Normalize(n.AttrOr("title", ""))
	})

	return r
}

// cell returns the first element in row carrying the given metadata id.
func (s *Scraper) cell(row *goquery.Selection, id string) *goquery.Selection {
	return row.FindMatcher(metadataSelector).FilterFunction(func(_ int, n *goquery.Selection) bool {
		return n.AttrOr("data-metadata-id", "") == id
	}).First()
}

// visibleText returns the rendered text of sel, or the joined aria-label and
// title values of its descendants when it renders nothing.
func visibleText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	if text := textnorm.Normalize(innerText(sel)); text != "" {
		return text
	}

	var bits []string
	sel.FindMatcher(labelledSelector).Each(func(_ int, n *goquery.Selection) {
		if v := labelOf(n); v != "" {
			bits = append(bits, v)
		}
	})
	return textnorm.Normalize(strings.Join(bits, " "))
}

// labelOf prefers a non-empty aria-label over the title attribute.
func labelOf(n *goquery.Selection) string {
	if v := textnorm.Normalize(n.AttrOr("aria-label", "")); v != "" {
		return v
	}
	return textnorm.Normalize(n.AttrOr("title", ""))
}

func dateCellText(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	if text := textnorm.Normalize(innerText(sel)); text != "" {
		return text
	}
	return textnorm.Normalize(sel.AttrOr("title", ""))
}

// innerText approximates rendered text: block elements and line breaks
// separate their content with newlines, script and style are skipped.
func innerText(sel *goquery.Selection) string {
	var b strings.Builder
	for _, n := range sel.Nodes {
		writeText(&b, n)
	}
	return b.String()
}

func writeText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "template":
			return
		}
	}

	block := n.Type == html.ElementNode && blockElementNames[n.Data]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c)
	}
	if block {
		b.WriteByte('\n')
	}
}

// GuessTerm extracts "Fall 2025" style term names from a page title. The
// season is title-cased; empty means no term was found.
func GuessTerm(title string) string {
	m := termPattern.FindStringSubmatch(title)
	if m == nil {
		return ""
	}
	season := cases.Title(language.English).String(strings.ToLower(m[1]))
	return season + " " + m[2]
}
