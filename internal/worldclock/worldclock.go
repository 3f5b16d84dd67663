// Package worldclock defines the configured world clock record and the
// ordered list operations used when the user edits their clocks.
package worldclock

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no clock matches a reference.
	ErrNotFound = errors.New("world clock not found")
	// ErrIndexOutOfRange is returned for list positions outside the list.
	ErrIndexOutOfRange = errors.New("index out of range")
)

// Clock is one configured world clock. ID never changes after creation.
type Clock struct {
	ID                 string  `json:"id"`
	Label              string  `json:"label"`
	TimeZoneIdentifier string  `json:"timeZoneIdentifier"`
	CountryCode        *string `json:"countryCode,omitempty"`
	ShowInMenuBar      bool    `json:"showInMenuBar"`
}

// New creates a clock with a freshly generated ID.
func New(label, timeZoneIdentifier string) Clock {
	return Clock{
		ID:                 strings.ToUpper(uuid.New().String()),
		Label:              label,
		TimeZoneIdentifier: timeZoneIdentifier,
	}
}

// WithCountry returns a copy of c with an explicit country code override.
// An empty code clears the override.
func (c Clock) WithCountry(code string) Clock {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		c.CountryCode = nil
		return c
	}
	c.CountryCode = &code
	return c
}

// Location resolves the clock's zone. It is recomputed on every call so an
// edited identifier is always honored.
func (c Clock) Location() (*time.Location, bool) {
	if strings.TrimSpace(c.TimeZoneIdentifier) == "" {
		return nil, false
	}
	loc, err := time.LoadLocation(c.TimeZoneIdentifier)
	if err != nil {
		return nil, false
	}
	return loc, true
}

// CountryResolver maps a zone identifier to a country code.
type CountryResolver interface {
	CountryCode(zoneIdentifier string) (string, bool)
}

// ResolveCountry returns the upper-case country code for the clock: the
// explicit override when set, otherwise the zone table entry.
func (c Clock) ResolveCountry(r CountryResolver) (string, bool) {
	if c.CountryCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*c.CountryCode))
		return code, code != ""
	}
	if r == nil {
		return "", false
	}
	code, ok := r.CountryCode(c.TimeZoneIdentifier)
	if !ok {
		return "", false
	}
	return strings.ToUpper(code), true
}

// Encode serializes an ordered clock list.
func Encode(clocks []Clock) ([]byte, error) {
	if clocks == nil {
		clocks = []Clock{}
	}
	data, err := json.Marshal(clocks)
	if err != nil {
		return nil, fmt.Errorf("encode world clocks: %w", err)
	}
	return data, nil
}

// Decode parses an ordered clock list. Missing optional fields keep their
// zero values: no country override, hidden from the summary line.
func Decode(data []byte) ([]Clock, error) {
	var clocks []Clock
	if err := json.Unmarshal(data, &clocks); err != nil {
		return nil, fmt.Errorf("decode world clocks: %w", err)
	}
	if clocks == nil {
		clocks = []Clock{}
	}
	return clocks, nil
}
