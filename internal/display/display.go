// Package display derives everything a renderer shows for a world clock from
// a single instant: formatted time, offset label, day/night state, calendar
// badge and the upcoming holiday line. It renders nothing itself except the
// terminal board in render.go.
package display

import (
	"strconv"
	"strings"
	"time"

	"github.com/agent-platform/worldclock/internal/holiday"
	"github.com/agent-platform/worldclock/internal/timeparse"
	"github.com/agent-platform/worldclock/internal/worldclock"
	"github.com/agent-platform/worldclock/internal/zone"
)

const (
	// DefaultFormat is the pattern used when none is configured.
	DefaultFormat = "HH:mm"
	// Unavailable replaces the time of a clock whose zone does not resolve.
	Unavailable = "—"

	summarySeparator = " | "
	holidaySeparator = " · "
	dateFormat       = "EEEE, d MMMM yyyy"
)

// HolidayLookup returns the cached next holiday for a country code. It must
// not block on the network.
type HolidayLookup interface {
	Lookup(countryCode string) (holiday.Holiday, bool)
}

// Facts is the derived view of one world clock at one instant.
type Facts struct {
	ID             string `json:"id"`
	Label          string `json:"label"`
	TimeZone       string `json:"timeZone"`
	Available      bool   `json:"available"`
	FormattedTime  string `json:"formattedTime"`
	UTCOffsetLabel string `json:"utcOffsetLabel"`
	FriendlyOffset string `json:"friendlyOffset"`
	IsDaytime      bool   `json:"isDaytime"`
	DayBadge       string `json:"dayBadge"`
	HolidaySummary string `json:"holidaySummary"`
	CountryCode    string `json:"countryCode,omitempty"`
	Flag           string `json:"flag,omitempty"`
}

// Projector computes Facts and the summary line. The zero value works with
// time.Local, HH:mm patterns and no holiday data.
type Projector struct {
	Registry    *zone.Registry
	Holidays    HolidayLookup
	Local       *time.Location
	LocalFormat string
	WorldFormat string
	WorldFirst  bool
}

func (p *Projector) local() *time.Location {
	if p.Local == nil {
		return time.Local
	}
	return p.Local
}

func (p *Projector) resolve(c worldclock.Clock) (*time.Location, bool) {
	if p.Registry != nil {
		return p.Registry.Resolve(c.TimeZoneIdentifier)
	}
	return c.Location()
}

func (p *Projector) country(c worldclock.Clock) (string, bool) {
	var resolver worldclock.CountryResolver
	if p.Registry != nil {
		resolver = p.Registry
	}
	return c.ResolveCountry(resolver)
}

func orDefault(pattern string) string {
	if strings.TrimSpace(pattern) == "" {
		return DefaultFormat
	}
	return pattern
}

// Project derives the facts for c. When override is non-nil the clock is
// shown at that instant instead of live and the holiday line is suppressed.
// A clock whose zone does not resolve gets no derived facts at all, not even
// its country or holiday.
func (p *Projector) Project(c worldclock.Clock, live time.Time, override *time.Time) Facts {
	instant := live
	if override != nil {
		instant = *override
	}

	f := Facts{
		ID:            c.ID,
		Label:         c.Label,
		TimeZone:      c.TimeZoneIdentifier,
		FormattedTime: Unavailable,
		IsDaytime:     true,
	}

	loc, ok := p.resolve(c)
	if !ok {
		return f
	}
	local := p.local()
	remote := instant.In(loc)

	f.Available = true
	f.FormattedTime = FormatPattern(remote, orDefault(p.WorldFormat))
	f.UTCOffsetLabel = OffsetLabel(loc, local, instant)
	f.FriendlyOffset = zone.FriendlyOffset(loc, instant)
	f.IsDaytime = IsDaytime(remote)
	f.DayBadge = DayBadge(instant.In(local), remote)

	if code, ok := p.country(c); ok {
		f.CountryCode = code
		f.Flag = zone.FlagEmoji(code)
		if override == nil {
			f.HolidaySummary = p.holidayLine(code, live)
		}
	}
	return f
}

// OffsetLabel reports how far loc is from local at an instant in whole hours
// truncated toward zero, e.g. "+9h from local" or "-5h from local".
func OffsetLabel(loc, local *time.Location, at time.Time) string {
	diff := (zone.OffsetSeconds(loc, at) - zone.OffsetSeconds(local, at)) / 3600
	sign := ""
	if diff >= 0 {
		sign = "+"
	}
	return sign + strconv.Itoa(diff) + "h from local"
}

// IsDaytime reports whether the wall-clock hour of t is in [6, 20).
func IsDaytime(t time.Time) bool {
	h := t.Hour()
	return h >= 6 && h < 20
}

// DayBadge compares the civil dates of the same instant seen locally and
// remotely: "Tomorrow" when the remote date is one day ahead, "Yesterday"
// when one behind, otherwise "".
func DayBadge(local, remote time.Time) string {
	switch civilDay(remote) - civilDay(local) {
	case 1:
		return "Tomorrow"
	case -1:
		return "Yesterday"
	default:
		return ""
	}
}

// civilDay numbers the calendar date of t, ignoring its zone.
func civilDay(t time.Time) int64 {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / 86400
}

func (p *Projector) holidayLine(code string, live time.Time) string {
	if p.Holidays == nil {
		return ""
	}
	h, ok := p.Holidays.Lookup(code)
	if !ok {
		return ""
	}
	local := p.local()
	day, ok := h.Day(local)
	if !ok {
		return ""
	}

	var when string
	switch civilDay(day) - civilDay(live.In(local)) {
	case 0:
		when = "Today"
	case 1:
		when = "Tomorrow"
	default:
		when = day.Format("Jan 2")
	}
	return when + holidaySeparator + h.LocalName
}

// Summary builds the one-line status text: the local time plus every clock
// marked ShowInMenuBar whose zone resolves, joined by " | ". WorldFirst puts
// the world segments before the local one.
func (p *Projector) Summary(clocks []worldclock.Clock, live time.Time) string {
	local := FormatPattern(live.In(p.local()), orDefault(p.LocalFormat))

	var segments []string
	for _, c := range clocks {
		if !c.ShowInMenuBar {
			continue
		}
		loc, ok := p.resolve(c)
		if !ok {
			continue
		}
		segments = append(segments, c.Label+" "+FormatPattern(live.In(loc), orDefault(p.WorldFormat)))
	}
	if len(segments) == 0 {
		return local
	}

	world := strings.Join(segments, summarySeparator)
	if p.WorldFirst {
		return world + summarySeparator + local
	}
	return local + summarySeparator + world
}

// Convert parses text as a local wall-clock time on now's day and projects
// every clock at that instant. ok is false when the text does not parse.
func (p *Projector) Convert(clocks []worldclock.Clock, text string, now time.Time) (at time.Time, facts []Facts, ok bool) {
	at, ok = timeparse.ParseIn(text, now, p.local())
	if !ok {
		return time.Time{}, nil, false
	}
	facts = make([]Facts, 0, len(clocks))
	for _, c := range clocks {
		facts = append(facts, p.Project(c, now, &at))
	}
	return at, facts, true
}

// Header describes the local clock shown above the world clocks.
type Header struct {
	Zone    string    `json:"zone"`
	Time    string    `json:"time"`
	Date    string    `json:"date"`
	Instant time.Time `json:"instant"`
}

// Board is everything a renderer needs for one frame.
type Board struct {
	Local     Header  `json:"local"`
	Clocks    []Facts `json:"clocks"`
	Summary   string  `json:"summary"`
	Converted bool    `json:"converted"`
}

// Board projects all clocks in list order under a local header.
func (p *Projector) Board(clocks []worldclock.Clock, live time.Time, override *time.Time) Board {
	instant := live
	if override != nil {
		instant = *override
	}
	local := instant.In(p.local())

	b := Board{
		Local: Header{
			Zone:    p.local().String(),
			Time:    FormatPattern(local, orDefault(p.LocalFormat)),
			Date:    FormatPattern(local, dateFormat),
			Instant: instant,
		},
		Clocks:    make([]Facts, 0, len(clocks)),
		Summary:   p.Summary(clocks, live),
		Converted: override != nil,
	}
	for _, c := range clocks {
		b.Clocks = append(b.Clocks, p.Project(c, live, override))
	}
	return b
}
