package holiday

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

const productID = "-//worldclock//holidays//EN"

// WriteICS writes holidays as an iCalendar file with one all-day event per
// holiday. Entries with an unparsable date are skipped.
func WriteICS(w io.Writer, holidays []Holiday, stamp time.Time) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, h := range holidays {
		day, ok := h.Day(time.UTC)
		if !ok {
			continue
		}
		uid := fmt.Sprintf("%s-%s@worldclock", h.Date, strings.ToLower(h.CountryCode))
		ev := cal.AddEvent(uid)
		ev.SetDtStampTime(stamp.UTC())
		ev.SetAllDayStartAt(day)
		ev.SetAllDayEndAt(day.AddDate(0, 0, 1))
		ev.SetSummary(h.LocalName)
		if h.Name != "" && h.Name != h.LocalName {
			ev.SetDescription(h.Name)
		}
	}

	if _, err := io.WriteString(w, cal.Serialize()); err != nil {
		return fmt.Errorf("write calendar: %w", err)
	}
	return nil
}
