package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/agent-platform/worldclock/internal/holiday"
	"github.com/agent-platform/worldclock/internal/worldclock"
)

// Setting keys.
const (
	KeyWorldClocks       = "worldClocks"
	KeyMenuBarFormat     = "menuBarFormat"
	KeyWorldClockFormat  = "worldClockFormat"
	KeyShowWorldInMenu   = "showWorldClocksInMenuBar"
	KeyWorldFirst        = "worldFirst"
	KeyHolidaySnapshot   = "holidayCache"
	defaultDisplayFormat = "HH:mm"
)

// Preferences is the persisted user state.
type Preferences struct {
	WorldClocks              worldclock.List `json:"worldClocks"`
	MenuBarFormat            string          `json:"menuBarFormat"`
	WorldClockFormat         string          `json:"worldClockFormat"`
	ShowWorldClocksInMenuBar bool            `json:"showWorldClocksInMenuBar"`
	WorldFirst               bool            `json:"worldFirst"`
}

// DefaultPreferences returns the state of a fresh install.
func DefaultPreferences() Preferences {
	return Preferences{
		WorldClocks:      worldclock.List{},
		MenuBarFormat:    defaultDisplayFormat,
		WorldClockFormat: defaultDisplayFormat,
	}
}

// LoadPreferences reads every preference, keeping the value from defaults
// for keys that were never saved. A corrupt clock list is logged and
// replaced by the default list.
func (s *Store) LoadPreferences(defaults Preferences) (Preferences, error) {
	p := defaults
	if p.WorldClocks == nil {
		p.WorldClocks = worldclock.List{}
	}

	raw, err := s.lookup(KeyWorldClocks)
	if err != nil {
		return p, err
	}
	if raw != nil {
		clocks, err := worldclock.Decode([]byte(*raw))
		if err != nil {
			log.Warn().Str("component", "store").Err(err).Msg("ignoring unreadable world clock list")
		} else {
			p.WorldClocks = clocks
		}
	}

	for key, dst := range map[string]*string{
		KeyMenuBarFormat:    &p.MenuBarFormat,
		KeyWorldClockFormat: &p.WorldClockFormat,
	} {
		raw, err := s.lookup(key)
		if err != nil {
			return p, err
		}
		if raw != nil && *raw != "" {
			*dst = *raw
		}
	}

	for key, dst := range map[string]*bool{
		KeyShowWorldInMenu: &p.ShowWorldClocksInMenuBar,
		KeyWorldFirst:      &p.WorldFirst,
	} {
		raw, err := s.lookup(key)
		if err != nil {
			return p, err
		}
		if raw == nil {
			continue
		}
		v, err := strconv.ParseBool(*raw)
		if err != nil {
			log.Warn().Str("component", "store").Str("key", key).Str("value", *raw).Msg("ignoring invalid boolean preference")
			continue
		}
		*dst = v
	}

	return p, nil
}

// lookup returns nil for a missing key.
func (s *Store) lookup(key string) (*string, error) {
	v, err := s.Get(key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// SavePreferences writes every preference in one transaction.
func (s *Store) SavePreferences(p Preferences) error {
	clocks, err := worldclock.Encode(p.WorldClocks)
	if err != nil {
		return err
	}
	return s.SetMany(map[string]string{
		KeyWorldClocks:      string(clocks),
		KeyMenuBarFormat:    p.MenuBarFormat,
		KeyWorldClockFormat: p.WorldClockFormat,
		KeyShowWorldInMenu:  strconv.FormatBool(p.ShowWorldClocksInMenuBar),
		KeyWorldFirst:       strconv.FormatBool(p.WorldFirst),
	})
}

// SaveClocks writes only the clock list.
func (s *Store) SaveClocks(clocks []worldclock.Clock) error {
	data, err := worldclock.Encode(clocks)
	if err != nil {
		return err
	}
	return s.Set(KeyWorldClocks, string(data))
}

// SaveHolidays persists a holiday cache snapshot for the next start.
func (s *Store) SaveHolidays(snapshot map[string][]holiday.Holiday) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode holiday snapshot: %w", err)
	}
	return s.Set(KeyHolidaySnapshot, string(data))
}

// LoadHolidays returns the persisted snapshot, or an empty one.
func (s *Store) LoadHolidays() (map[string][]holiday.Holiday, error) {
	raw, err := s.lookup(KeyHolidaySnapshot)
	if err != nil || raw == nil {
		return map[string][]holiday.Holiday{}, err
	}
	var snapshot map[string][]holiday.Holiday
	if err := json.Unmarshal([]byte(*raw), &snapshot); err != nil {
		return nil, fmt.Errorf("decode holiday snapshot: %w", err)
	}
	if snapshot == nil {
		snapshot = map[string][]holiday.Holiday{}
	}
	return snapshot, nil
}
