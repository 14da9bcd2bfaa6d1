package scraper

import (
	"errors"
	"strings"
	"testing"
)

const enrolledPage = `<!DOCTYPE html>
<html>
<head><title>View My Courses - Fall 2025 - Workday</title></head>
<body>
<table>
  <caption>My Dropped Courses</caption>
  <tbody><tr><td>MATH 101</td></tr></tbody>
</table>
<table>
  <caption>
    My Enrolled Courses
  </caption>
  <thead><tr><th>Course</th><th>Meeting Patterns</th><th>Start</th><th>End</th></tr></thead>
  <tbody>
    <tr>
      <td data-metadata-id="56$380280"><div>COM S 227 - Object-oriented Programming</div></td>
      <td data-metadata-id="56$532392">
        <div aria-label="MWF | 12:05 PM - 12:55 PM | Howe Hall 1244">MWF | 12:05 PM - 12:55 PM</div>
      </td>
      <td data-metadata-id="56$435880"><div>08/25/2025</div></td>
      <td data-metadata-id="56$435879"><div>12/12/2025</div></td>
    </tr>
    <tr>
      <td data-metadata-id="56$380280"><span title="STAT 101 - Principles of Statistics"></span></td>
      <td data-metadata-id="56$532392"><div>TR<br>9:30 AM - 10:45 AM</div></td>
      <td data-metadata-id="56$435880" title="10/20/2025"></td>
      <td data-metadata-id="56$435879"></td>
    </tr>
    <tr><th>Section header</th></tr>
    <tr>
      <td>ENGL 150 - Critical Thinking</td>
      <td><span>Online</span></td>
    </tr>
  </tbody>
</table>
</body>
</html>`

func TestParse(t *testing.T) {
	page, err := New(Options{}).Parse(strings.NewReader(enrolledPage))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if page.Term != "Fall 2025" {
		t.Errorf("Term = %q, want %q", page.Term, "Fall 2025")
	}
	if len(page.Rows) != 3 {
		t.Fatalf("Rows = %d, want 3 (header-only rows skipped)", len(page.Rows))
	}

	first := page.Rows[0]
	if first.Title != "COM S 227 - Object-oriented Programming" {
		t.Errorf("Title = %q", first.Title)
	}
	if len(first.MeetingAttrs) != 1 || first.MeetingAttrs[0] != "MWF | 12:05 PM - 12:55 PM | Howe Hall 1244" {
		t.Errorf("MeetingAttrs = %q", first.MeetingAttrs)
	}
	if first.MeetingText != "MWF | 12:05 PM - 12:55 PM" {
		t.Errorf("MeetingText = %q", first.MeetingText)
	}
	if first.StartDateText != "08/25/2025" || first.EndDateText != "12/12/2025" {
		t.Errorf("dates = %q - %q", first.StartDateText, first.EndDateText)
	}
	if len(first.Cells) != 4 {
		t.Errorf("Cells = %q", first.Cells)
	}

	second := page.Rows[1]
	if second.Title != "STAT 101 - Principles of Statistics" {
		t.Errorf("Title from title attribute = %q", second.Title)
	}
	if second.MeetingText != "TR 9:30 AM - 10:45 AM" {
		t.Errorf("MeetingText = %q, want line break rendered as space", second.MeetingText)
	}
	if second.StartDateText != "10/20/2025" {
		t.Errorf("StartDateText = %q, want title attribute fallback", second.StartDateText)
	}
	if second.EndDateText != "" {
		t.Errorf("EndDateText = %q, want empty", second.EndDateText)
	}

	third := page.Rows[2]
	if third.Title != "" {
		t.Errorf("Title = %q, want empty without a course cell", third.Title)
	}
	if len(third.Cells) != 2 || third.Cells[0] != "ENGL 150 - Critical Thinking" {
		t.Errorf("Cells = %q", third.Cells)
	}
	if len(third.Descendants) != 1 || third.Descendants[0] != "Online" {
		t.Errorf("Descendants = %q", third.Descendants)
	}
}

func TestParse_CaptionMatching(t *testing.T) {
	tests := []struct {
		name    string
		html    string
		caption string
		want    string
		wantErr error
	}{
		{
			name: "exact match wins over earlier partial",
			html: `<table><caption>Not My Enrolled Courses Archive</caption><tbody><tr><td>OLD</td></tr></tbody></table>
				<table><caption>my enrolled  courses</caption><tbody><tr><td>NEW</td></tr></tbody></table>`,
			want: "NEW",
		},
		{
			name: "partial match",
			html: `<table><caption>My Enrolled Courses (3)</caption><tbody><tr><td>ONLY</td></tr></tbody></table>`,
			want: "ONLY",
		},
		{
			name:    "custom caption",
			html:    `<table><caption>Current Classes</caption><tbody><tr><td>CUSTOM</td></tr></tbody></table>`,
			caption: "Current Classes",
			want:    "CUSTOM",
		},
		{
			name:    "no table",
			html:    `<p>Nothing to see</p>`,
			wantErr: ErrTableNotFound,
		},
		{
			name:    "no caption",
			html:    `<table><tbody><tr><td>X</td></tr></tbody></table>`,
			wantErr: ErrTableNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := New(Options{Caption: tt.caption}).Parse(strings.NewReader(tt.html))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Parse() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if len(page.Rows) != 1 || len(page.Rows[0].Cells) != 1 || page.Rows[0].Cells[0] != tt.want {
				t.Errorf("Rows = %+v, want single cell %q", page.Rows, tt.want)
			}
		})
	}
}

func TestVisibleText_LabelFallback(t *testing.T) {
	html := `<table><caption>My Enrolled Courses</caption><tbody><tr>
		<td data-metadata-id="56$532392"><span aria-label="W | 6:00 PM - 8:50 PM"></span><span title="Online" aria-label=""></span></td>
	</tr></tbody></table>`

	page, err := New(Options{}).Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	row := page.Rows[0]
	if row.MeetingText != "W | 6:00 PM - 8:50 PM Online" {
		t.Errorf("MeetingText = %q", row.MeetingText)
	}
	if len(row.MeetingAttrs) != 2 || row.MeetingAttrs[1] != "Online" {
		t.Errorf("MeetingAttrs = %q, want empty aria-label to fall back to title", row.MeetingAttrs)
	}
}

func TestInnerText_SkipsScripts(t *testing.T) {
	html := `<table><caption>My Enrolled Courses</caption><tbody><tr>
		<td>COM S 227<script>var x = "9:00 AM - 9:50 AM";</script><style>td{}</style></td>
	</tr></tbody></table>`

	page, err := New(Options{}).Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if got := page.Rows[0].Cells[0]; got != "COM S 227" {
		t.Errorf("Cells[0] = %q", got)
	}
}

func TestGuessTerm(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"View My Courses - Fall 2025 - Workday", "Fall 2025"},
		{"SPRING 2026 schedule", "Spring 2026"},
		{"summer 2024", "Summer 2024"},
		{"Winter 2025", ""},
		{"Fall2025", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			if got := GuessTerm(tt.title); got != tt.want {
				t.Errorf("GuessTerm(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
