package database

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect captures the differences between the supported SQL servers that
// matter to the repositories: placeholder syntax, identifier quoting and
// column types used by the generated schema.
type Dialect struct {
	Name      string
	Driver    string // database/sql driver name
	numbered  bool   // $1, $2 ... instead of ?
	quote     string
	Text      string
	ShortText string // indexed/unique text columns
	Int       string
	SmallInt  string
	Float     string
	Timestamp string
}

var (
	Postgres = Dialect{
		Name: "postgres", Driver: "pgx", numbered: true, quote: `"`,
		Text: "TEXT", ShortText: "VARCHAR(255)", Int: "INTEGER", SmallInt: "SMALLINT",
		Float: "DOUBLE PRECISION", Timestamp: "TIMESTAMPTZ",
	}
	MySQL = Dialect{
		Name: "mysql", Driver: "mysql", quote: "`",
		Text: "TEXT", ShortText: "VARCHAR(255)", Int: "INT", SmallInt: "SMALLINT",
		Float: "DOUBLE", Timestamp: "DATETIME(6)",
	}
	SQLite = Dialect{
		Name: "sqlite", Driver: "sqlite", quote: `"`,
		Text: "TEXT", ShortText: "TEXT", Int: "INTEGER", SmallInt: "INTEGER",
		Float: "REAL", Timestamp: "TIMESTAMP",
	}
)

// DialectFor maps a driver name (or common alias) to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "pgx", "postgres", "postgresql", "supabase":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	}
	return Dialect{}, fmt.Errorf("database: unsupported driver %q", driver)
}

// Placeholder returns the bind parameter for the n-th (1-based) argument.
func (d Dialect) Placeholder(n int) string {
	if d.numbered {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

// Placeholders returns count comma-separated placeholders starting at from.
func (d Dialect) Placeholders(from, count int) string {
	parts := make([]string, count)
	for i := range parts {
		parts[i] = d.Placeholder(from + i)
	}
	return strings.Join(parts, ", ")
}

// Quote quotes an identifier.  Identifiers only ever come from the
// compile-time table descriptors, never from requests.
func (d Dialect) Quote(ident string) string {
	return d.quote + strings.ReplaceAll(ident, d.quote, d.quote+d.quote) + d.quote
}
