package holiday

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-ical"

	"github.com/cyp0633/libcapacity/calendar"
)

// LoadICS reads an iCalendar feed (e.g. a published holiday calendar) and
// returns every VEVENT day as a holiday. Multi-day events contribute each day
// from DTSTART up to, but excluding, DTEND. Events without a usable DTSTART are
// skipped.
func LoadICS(r io.Reader) (Static, error) {
	out := make(Static)
	dec := ical.NewDecoder(r)

	for {
		cal, err := dec.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode holiday calendar: %w", err)
		}

		for _, ev := range cal.Events() {
			start, ok := propDate(ev.Props.Get(ical.PropDateTimeStart))
			if !ok {
				continue
			}
			end, ok := propDate(ev.Props.Get(ical.PropDateTimeEnd))
			if !ok || !end.After(start) {
				end = start.AddDays(1)
			}

			name, _ := ev.Props.Text(ical.PropSummary)
			for d := start; d.Before(end); d = d.AddDays(1) {
				if _, exists := out[d]; !exists {
					out[d] = name
				}
			}
		}
	}

	return out, nil
}

// propDate extracts the calendar day of a DATE or DATE-TIME property.
func propDate(prop *ical.Prop) (calendar.Date, bool) {
	if prop == nil || prop.Value == "" {
		return calendar.Date{}, false
	}
	value := strings.TrimSpace(prop.Value)

	isDateOnly := false
	if valueParam := prop.Params.Get(ical.ParamValue); strings.EqualFold(valueParam, "DATE") {
		isDateOnly = true
	}

	if isDateOnly || len(value) == len("20060102") {
		t, err := time.Parse("20060102", value)
		if err != nil {
			return calendar.Date{}, false
		}
		return calendar.FromTime(t), true
	}

	for _, layout := range []string{"20060102T150405Z", "20060102T150405"} {
		if t, err := time.Parse(layout, value); err == nil {
			return calendar.FromTime(t), true
		}
	}
	return calendar.Date{}, false
}
