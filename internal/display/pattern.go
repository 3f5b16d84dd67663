package display

import (
	"fmt"
	"strings"
	"time"
)

// Preset is a named date pattern offered to users.
type Preset struct {
	Label   string
	Pattern string
}

// Presets are the suggested summary-line patterns.
var Presets = []Preset{
	{"Time", "HH:mm"},
	{"12-hour", "h:mm a"},
	{"Seconds", "HH:mm:ss"},
	{"Weekday", "EEE HH:mm"},
	{"Cal week", "'W'w · EEE HH:mm"},
	{"Date", "dd MMM HH:mm"},
	{"ISO date", "yyyy-MM-dd HH:mm"},
	{"Full", "EEEE, d MMMM"},
}

// FormatPattern renders t with a Unicode (LDML) date pattern such as
// "HH:mm", "h:mm a" or "EEE d MMM". Text in single quotes is literal and a
// doubled quote is an escaped quote. Unrecognised letters are copied through.
//
// Week fields are ISO 8601 rather than locale dependent: "w" is the ISO week
// number and "Y" its week-based year, so 1 January 2027 is week 53 of 2026.
func FormatPattern(t time.Time, pattern string) string {
	var b strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); {
		r := runes[i]

		if r == '\'' {
			if i+1 < len(runes) && runes[i+1] == '\'' {
				b.WriteRune('\'')
				i += 2
				continue
			}
			j := i + 1
			for j < len(runes) {
				if runes[j] == '\'' {
					if j+1 < len(runes) && runes[j+1] == '\'' {
						b.WriteRune('\'')
						j += 2
						continue
					}
					break
				}
				b.WriteRune(runes[j])
				j++
			}
			i = j + 1
			continue
		}

		if !isPatternLetter(r) {
			b.WriteRune(r)
			i++
			continue
		}

		n := 1
		for i+n < len(runes) && runes[i+n] == r {
			n++
		}
		b.WriteString(field(t, r, n))
		i += n
	}
	return b.String()
}

func isPatternLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func field(t time.Time, letter rune, n int) string {
	switch letter {
	case 'y', 'u':
		if n == 2 {
			return fmt.Sprintf("%02d", t.Year()%100)
		}
		return pad(t.Year(), n)
	case 'Y':
		year, _ := t.ISOWeek()
		if n == 2 {
			return fmt.Sprintf("%02d", year%100)
		}
		return pad(year, n)
	case 'M', 'L':
		switch {
		case n >= 4:
			return t.Month().String()
		case n == 3:
			return t.Month().String()[:3]
		default:
			return pad(int(t.Month()), n)
		}
	case 'd':
		return pad(t.Day(), n)
	case 'D':
		return pad(t.YearDay(), n)
	case 'E':
		switch {
		case n == 5:
			return t.Weekday().String()[:1]
		case n >= 4:
			return t.Weekday().String()
		default:
			return t.Weekday().String()[:3]
		}
	case 'w':
		_, week := t.ISOWeek()
		return pad(week, n)
	case 'H':
		return pad(t.Hour(), n)
	case 'k':
		h := t.Hour()
		if h == 0 {
			h = 24
		}
		return pad(h, n)
	case 'h':
		h := t.Hour() % 12
		if h == 0 {
			h = 12
		}
		return pad(h, n)
	case 'K':
		return pad(t.Hour()%12, n)
	case 'm':
		return pad(t.Minute(), n)
	case 's':
		return pad(t.Second(), n)
	case 'S':
		frac := fmt.Sprintf("%09d", t.Nanosecond())
		if n > 9 {
			n = 9
		}
		return frac[:n]
	case 'a':
		if t.Hour() < 12 {
			return "AM"
		}
		return "PM"
	case 'z', 'v', 'V':
		name, _ := t.Zone()
		return name
	case 'Z':
		if n == 5 {
			return t.Format("-07:00")
		}
		return t.Format("-0700")
	case 'X', 'x':
		if n >= 3 {
			return t.Format("-07:00")
		}
		return t.Format("-0700")
	default:
		return strings.Repeat(string(letter), n)
	}
}

func pad(v, width int) string {
	return fmt.Sprintf("%0*d", width, v)
}
