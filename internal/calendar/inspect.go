package calendar

import (
	"errors"
	"fmt"
	"io"

	"github.com/emersion/go-ical"
)

// EventSummary is the readable form of one VEVENT.
type EventSummary struct {
	UID      string `json:"uid"`
	Title    string `json:"title"`
	Location string `json:"location,omitempty"`
	Start    string `json:"start"`
	End      string `json:"end"`
	TZID     string `json:"tzid,omitempty"`
}

// Inspect decodes every calendar in r and summarizes its events in document
// order. Text values are unescaped; date-times are returned as written.
func Inspect(r io.Reader) ([]EventSummary, error) {
	dec := ical.NewDecoder(r)

	summaries := make([]EventSummary, 0)
	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding calendar: %w", err)
		}

		for _, ev := range cal.Events() {
			summaries = append(summaries, summarize(ev))
		}
	}

	return summaries, nil
}

func summarize(ev ical.Event) EventSummary {
	var s EventSummary

	s.UID, _ = ev.Props.Text(ical.PropUID)
	s.Title, _ = ev.Props.Text(ical.PropSummary)
	s.Location, _ = ev.Props.Text(ical.PropLocation)

	if p := ev.Props.Get(ical.PropDateTimeStart); p != nil {
		s.Start = p.Value
		s.TZID = p.Params.Get(ical.ParamTimezoneID)
	}
	if p := ev.Props.Get(ical.PropDateTimeEnd); p != nil {
		s.End = p.Value
	}

	return s
}
