package store

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect names the SQL backend holding the settings table.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// sqlitePragmas are appended to every SQLite file path.
const sqlitePragmas = "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"

// DetectDialect picks PostgreSQL for postgres:// and postgresql:// URLs.
// Everything else is an SQLite file path.
func DetectDialect(dsn string) Dialect {
	scheme, _, found := strings.Cut(dsn, "://")
	if found && (strings.EqualFold(scheme, "postgres") || strings.EqualFold(scheme, "postgresql")) {
		return DialectPostgres
	}
	return DialectSQLite
}

// OpenDB opens and pings the settings database.
func OpenDB(dsn string) (*sql.DB, Dialect, error) {
	dialect := DetectDialect(dsn)

	source := dsn
	if dialect == DialectSQLite {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		source = dsn + sep + sqlitePragmas
	}

	db, err := sql.Open(string(dialect), source)
	if err != nil {
		return nil, dialect, fmt.Errorf("open %s: %w", dialect, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, dialect, fmt.Errorf("ping %s: %w", dialect, err)
	}
	return db, dialect, nil
}

// Rebind numbers `?` placeholders as $1, $2, ... for PostgreSQL.
func Rebind(dialect Dialect, query string) string {
	if dialect != DialectPostgres {
		return query
	}
	parts := strings.Split(query, "?")
	var b strings.Builder
	b.WriteString(parts[0])
	for i, part := range parts[1:] {
		b.WriteString("$" + strconv.Itoa(i+1))
		b.WriteString(part)
	}
	return b.String()
}

// schemaFor returns the settings table DDL. Only the timestamp default
// differs between backends.
func schemaFor(dialect Dialect) string {
	now := "(datetime('now'))"
	if dialect == DialectPostgres {
		now = "NOW()"
	}
	return `CREATE TABLE IF NOT EXISTS settings (
	name       TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL DEFAULT ` + now + `
)`
}
