package zone

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// DefaultZoneTab is where most Unix hosts install the tzdata country table.
const DefaultZoneTab = "/usr/share/zoneinfo/zone.tab"

// Table maps zone identifiers to upper-case ISO country codes.
type Table map[string]string

// ParseZoneTab reads a zone.tab file: tab-separated country code,
// coordinates and zone identifier, with '#' comment lines.
func ParseZoneTab(r io.Reader) (Table, error) {
	table := Table{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		table[strings.TrimSpace(fields[2])] = strings.ToUpper(strings.TrimSpace(fields[0]))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan zone table: %w", err)
	}
	return table, nil
}

// LoadZoneTab parses the zone.tab file at path. A missing file yields an empty
// table and no error: country lookups simply report unavailable.
func LoadZoneTab(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Table{}, nil
		}
		return nil, fmt.Errorf("open zone table: %w", err)
	}
	defer f.Close()
	return ParseZoneTab(f)
}
