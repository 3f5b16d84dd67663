package store

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/agent-platform/worldclock/internal/holiday"
	"github.com/agent-platform/worldclock/internal/worldclock"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestNewStoreInvalidPath(t *testing.T) {
	_, err := New("/nonexistent/deeply/nested/dir/test.db")
	if err == nil {
		t.Error("New() with invalid path should return error")
	}
}

func TestDetectDialect(t *testing.T) {
	tests := []struct {
		dsn  string
		want Dialect
	}{
		{"/home/me/.worldclock/worldclock.db", DialectSQLite},
		{"postgres://u:p@localhost/wc", DialectPostgres},
		{"PostgreSQL://localhost/wc", DialectPostgres},
		{"worldclock.db", DialectSQLite},
	}
	for _, tt := range tests {
		if got := DetectDialect(tt.dsn); got != tt.want {
			t.Errorf("DetectDialect(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}

func TestRebind(t *testing.T) {
	q := "INSERT INTO settings (name, value, updated_at) VALUES (?, ?, ?)"
	if got := Rebind(DialectSQLite, q); got != q {
		t.Errorf("Rebind(sqlite) = %q", got)
	}
	want := "INSERT INTO settings (name, value, updated_at) VALUES ($1, $2, $3)"
	if got := Rebind(DialectPostgres, q); got != want {
		t.Errorf("Rebind(postgres) = %q, want %q", got, want)
	}
}

func TestGetSetDelete(t *testing.T) {
	s := newTestStore(t)

	if _, err := s.Get("menuBarFormat"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() on empty store err = %v, want ErrNotFound", err)
	}

	if err := s.Set("menuBarFormat", "HH:mm"); err != nil {
		t.Fatalf("Set() error: %v", err)
	}
	if err := s.Set("menuBarFormat", "h:mm a"); err != nil {
		t.Fatalf("Set() overwrite error: %v", err)
	}
	got, err := s.Get("menuBarFormat")
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if got != "h:mm a" {
		t.Errorf("Get() = %q, want %q", got, "h:mm a")
	}

	keys, err := s.Keys()
	if err != nil {
		t.Fatalf("Keys() error: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"menuBarFormat"}) {
		t.Errorf("Keys() = %v", keys)
	}

	if err := s.Delete("menuBarFormat"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if err := s.Delete("menuBarFormat"); err != nil {
		t.Fatalf("Delete() of missing key error: %v", err)
	}
	if _, err := s.Get("menuBarFormat"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete err = %v, want ErrNotFound", err)
	}
}

func TestLoadPreferencesDefaults(t *testing.T) {
	s := newTestStore(t)

	p, err := s.LoadPreferences(DefaultPreferences())
	if err != nil {
		t.Fatalf("LoadPreferences() error: %v", err)
	}
	if p.MenuBarFormat != "HH:mm" || p.WorldClockFormat != "HH:mm" {
		t.Errorf("formats = %q, %q, want HH:mm", p.MenuBarFormat, p.WorldClockFormat)
	}
	if p.ShowWorldClocksInMenuBar || p.WorldFirst {
		t.Error("boolean preferences should default to false")
	}
	if p.WorldClocks == nil || len(p.WorldClocks) != 0 {
		t.Errorf("WorldClocks = %v, want empty list", p.WorldClocks)
	}
}

func TestSaveAndLoadPreferences(t *testing.T) {
	s := newTestStore(t)

	tokyo := worldclock.New("Tokyo", "Asia/Tokyo")
	tokyo.ShowInMenuBar = true
	berlin := worldclock.New("Berlin", "Europe/Berlin").WithCountry("de")

	want := Preferences{
		WorldClocks:              worldclock.List{tokyo, berlin},
		MenuBarFormat:            "EEE HH:mm",
		WorldClockFormat:         "h:mm a",
		ShowWorldClocksInMenuBar: true,
		WorldFirst:               true,
	}
	if err := s.SavePreferences(want); err != nil {
		t.Fatalf("SavePreferences() error: %v", err)
	}

	got, err := s.LoadPreferences(DefaultPreferences())
	if err != nil {
		t.Fatalf("LoadPreferences() error: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadPreferences() = %+v, want %+v", got, want)
	}
}

func TestLoadPreferencesCorruptClockList(t *testing.T) {
	s := newTestStore(t)
	if err := s.Set(KeyWorldClocks, "{not json"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(KeyWorldFirst, "maybe"); err != nil {
		t.Fatal(err)
	}

	p, err := s.LoadPreferences(DefaultPreferences())
	if err != nil {
		t.Fatalf("LoadPreferences() error: %v", err)
	}
	if len(p.WorldClocks) != 0 {
		t.Errorf("WorldClocks = %v, want empty", p.WorldClocks)
	}
	if p.WorldFirst {
		t.Error("invalid boolean should keep default")
	}
}

func TestSaveClocks(t *testing.T) {
	s := newTestStore(t)
	c := worldclock.New("Sydney", "Australia/Sydney")

	if err := s.SaveClocks([]worldclock.Clock{c}); err != nil {
		t.Fatalf("SaveClocks() error: %v", err)
	}
	p, err := s.LoadPreferences(DefaultPreferences())
	if err != nil {
		t.Fatalf("LoadPreferences() error: %v", err)
	}
	if len(p.WorldClocks) != 1 || p.WorldClocks[0].ID != c.ID {
		t.Errorf("WorldClocks = %+v", p.WorldClocks)
	}
}

func TestHolidaySnapshot(t *testing.T) {
	s := newTestStore(t)

	empty, err := s.LoadHolidays()
	if err != nil {
		t.Fatalf("LoadHolidays() error: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("LoadHolidays() on empty store = %v", empty)
	}

	snap := map[string][]holiday.Holiday{
		"JP": {{Date: "2026-02-11", LocalName: "建国記念の日", Name: "Foundation Day", CountryCode: "JP"}},
	}
	if err := s.SaveHolidays(snap); err != nil {
		t.Fatalf("SaveHolidays() error: %v", err)
	}
	got, err := s.LoadHolidays()
	if err != nil {
		t.Fatalf("LoadHolidays() error: %v", err)
	}
	if !reflect.DeepEqual(got, snap) {
		t.Errorf("LoadHolidays() = %v, want %v", got, snap)
	}
}
