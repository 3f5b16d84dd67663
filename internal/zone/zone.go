// Package zone wraps the host time-zone database: identifier lookup, offsets,
// and the zone-to-country table shipped with tzdata.
package zone

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bradfitz/latlong"
)

// Registry resolves zone identifiers and maps them to ISO country codes.
// The country table is injected once at construction and never reloaded.
type Registry struct {
	countries Table
	locations sync.Map // identifier -> *time.Location
}

// NewRegistry returns a Registry backed by the given zone.tab table.
// A nil table is treated as empty.
func NewRegistry(countries Table) *Registry {
	if countries == nil {
		countries = Table{}
	}
	return &Registry{countries: countries}
}

// Resolve looks up an IANA identifier. Unknown or empty identifiers report
// false rather than an error; callers treat them as "unavailable".
func (r *Registry) Resolve(id string) (*time.Location, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false
	}
	if loc, ok := r.locations.Load(id); ok {
		return loc.(*time.Location), true
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, false
	}
	r.locations.Store(id, loc)
	return loc, true
}

// CountryCode returns the upper-case ISO 3166 code for a zone identifier.
func (r *Registry) CountryCode(id string) (string, bool) {
	code, ok := r.countries[id]
	if !ok || code == "" {
		return "", false
	}
	return code, true
}

// Countries returns the number of zones with a known country.
func (r *Registry) Countries() int {
	return len(r.countries)
}

// ZoneAt returns the zone identifier covering the given coordinates.
func (r *Registry) ZoneAt(lat, lng float64) (string, bool) {
	name := latlong.LookupZoneName(lat, lng)
	if name == "" {
		return "", false
	}
	if _, ok := r.Resolve(name); !ok {
		return "", false
	}
	return name, true
}

// OffsetSeconds returns the offset of loc east of UTC at the given instant.
func OffsetSeconds(loc *time.Location, at time.Time) int {
	_, offset := at.In(loc).Zone()
	return offset
}

// FriendlyOffset renders the UTC offset of loc at an instant, e.g. "UTC+9",
// "UTC+5:30" or "UTC-3:30".
func FriendlyOffset(loc *time.Location, at time.Time) string {
	seconds := OffsetSeconds(loc, at)
	sign := "+"
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	hours := seconds / 3600
	minutes := seconds / 60 % 60
	if minutes == 0 {
		return fmt.Sprintf("UTC%s%d", sign, hours)
	}
	return fmt.Sprintf("UTC%s%d:%02d", sign, hours, minutes)
}

// CityName derives a display name from an identifier: "America/New_York"
// becomes "New York".
func CityName(id string) string {
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	return strings.ReplaceAll(id, "_", " ")
}

// FlagEmoji returns the regional-indicator flag for a two-letter country
// code, or "" when the code is not two ASCII letters.
func FlagEmoji(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 2 {
		return ""
	}
	var b strings.Builder
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return ""
		}
		b.WriteRune(0x1F1E6 + (c - 'A'))
	}
	return b.String()
}
