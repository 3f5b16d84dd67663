package geo

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/agent-platform/worldclock/internal/zone"
)

// cityZones maps lowercase city names to their IANA zone identifiers.
var cityZones = map[string]string{
	// Americas
	"new york":      "America/New_York",
	"los angeles":   "America/Los_Angeles",
	"san francisco": "America/Los_Angeles",
	"chicago":       "America/Chicago",
	"denver":        "America/Denver",
	"toronto":       "America/Toronto",
	"vancouver":     "America/Vancouver",
	"mexico city":   "America/Mexico_City",
	"sao paulo":     "America/Sao_Paulo",
	"buenos aires":  "America/Argentina/Buenos_Aires",
	"lima":          "America/Lima",
	"bogota":        "America/Bogota",
	"st johns":      "America/St_Johns",
	"honolulu":      "Pacific/Honolulu",
	// Europe
	"london":    "Europe/London",
	"dublin":    "Europe/Dublin",
	"lisbon":    "Europe/Lisbon",
	"paris":     "Europe/Paris",
	"berlin":    "Europe/Berlin",
	"madrid":    "Europe/Madrid",
	"rome":      "Europe/Rome",
	"amsterdam": "Europe/Amsterdam",
	"stockholm": "Europe/Stockholm",
	"helsinki":  "Europe/Helsinki",
	"moscow":    "Europe/Moscow",
	"istanbul":  "Europe/Istanbul",
	"zurich":    "Europe/Zurich",
	"warsaw":    "Europe/Warsaw",
	// Asia
	"tokyo":     "Asia/Tokyo",
	"osaka":     "Asia/Tokyo",
	"shanghai":  "Asia/Shanghai",
	"beijing":   "Asia/Shanghai",
	"hong kong": "Asia/Hong_Kong",
	"singapore": "Asia/Singapore",
	"seoul":     "Asia/Seoul",
	"mumbai":    "Asia/Kolkata",
	"delhi":     "Asia/Kolkata",
	"kathmandu": "Asia/Kathmandu",
	"bangkok":   "Asia/Bangkok",
	"jakarta":   "Asia/Jakarta",
	"taipei":    "Asia/Taipei",
	"manila":    "Asia/Manila",
	// Middle East
	"dubai":     "Asia/Dubai",
	"doha":      "Asia/Qatar",
	"riyadh":    "Asia/Riyadh",
	"tel aviv":  "Asia/Jerusalem",
	"jerusalem": "Asia/Jerusalem",
	// Oceania
	"sydney":    "Australia/Sydney",
	"melbourne": "Australia/Melbourne",
	"perth":     "Australia/Perth",
	"adelaide":  "Australia/Adelaide",
	"auckland":  "Pacific/Auckland",
	// Africa
	"cairo":        "Africa/Cairo",
	"lagos":        "Africa/Lagos",
	"johannesburg": "Africa/Johannesburg",
	"nairobi":      "Africa/Nairobi",
}

// Offline resolves places from the built-in city table and the latlong
// shape index. It never touches the network.
type Offline struct {
	registry *zone.Registry
}

// NewOffline returns an Offline resolver that uses r for zone validation and
// country codes.
func NewOffline(r *zone.Registry) *Offline {
	return &Offline{registry: r}
}

func (o *Offline) place(name, id string) Place {
	code, _ := o.registry.CountryCode(id)
	return Place{Name: name, Zone: id, CountryCode: code}
}

// Search matches city names by prefix or substring, and accepts an exact
// IANA identifier. Exact name matches sort first, then prefix matches, then
// the rest by name.
func (o *Offline) Search(ctx context.Context, query string) ([]Place, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return nil, ErrNoResult
	}

	if strings.Contains(key, "/") || strings.EqualFold(key, "utc") {
		id := strings.TrimSpace(query)
		if _, ok := o.registry.Resolve(id); ok {
			return []Place{o.place(zone.CityName(id), id)}, nil
		}
		return nil, fmt.Errorf("%w: %s", ErrNoResult, query)
	}

	type match struct {
		name string
		rank int
	}
	var matches []match
	for name := range cityZones {
		switch {
		case name == key:
			matches = append(matches, match{name, 0})
		case strings.HasPrefix(name, key):
			matches = append(matches, match{name, 1})
		case strings.Contains(name, key):
			matches = append(matches, match{name, 2})
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoResult, query)
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return matches[i].name < matches[j].name
	})

	places := make([]Place, 0, len(matches))
	for _, m := range matches {
		id := cityZones[m.name]
		if _, ok := o.registry.Resolve(id); !ok {
			continue
		}
		places = append(places, o.place(titleCase(m.name), id))
	}
	if len(places) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoResult, query)
	}
	return places, nil
}

// Reverse returns the zone covering a coordinate.
func (o *Offline) Reverse(ctx context.Context, lat, lng float64) (Place, error) {
	if err := ctx.Err(); err != nil {
		return Place{}, err
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return Place{}, fmt.Errorf("coordinate out of range: %g,%g", lat, lng)
	}
	id, ok := o.registry.ZoneAt(lat, lng)
	if !ok {
		return Place{}, fmt.Errorf("%w: %g,%g", ErrNoResult, lat, lng)
	}
	return o.place(zone.CityName(id), id), nil
}

// titleCase capitalizes the first letter of each word.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
