package repository

import (
	"fmt"
	"strings"

	"github.com/iliyamo/studio-site/internal/database"
)

// Schema returns the DDL for every content table plus the admin account
// tables, in the given dialect.  All statements are idempotent.
func Schema(d database.Dialect) []string {
	out := make([]string, 0, len(allowList)+2)
	for _, desc := range allowList {
		out = append(out, contentTableDDL(d, desc))
	}
	return append(out, adminSchema(d)...)
}

func contentTableDDL(d database.Dialect, desc *Descriptor) string {
	lines := []string{"id VARCHAR(36) NOT NULL PRIMARY KEY"}
	for _, c := range desc.Columns {
		var def string
		switch c.Kind {
		case KindInt:
			def = d.Int + " NOT NULL DEFAULT 0"
		case KindFloat:
			def = d.Float + " NOT NULL DEFAULT 0.5"
		default:
			def = d.Text + " NULL"
		}
		lines = append(lines, d.Quote(c.Name)+" "+def)
	}
	if desc.Singleton {
		// a constant unique key: a second row cannot be inserted
		lines = append(lines, "singleton_key "+d.SmallInt+" NOT NULL DEFAULT 1 UNIQUE")
	}
	lines = append(lines,
		"created_at "+d.Timestamp+" NOT NULL",
		"updated_at "+d.Timestamp+" NOT NULL",
	)
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)",
		d.Quote(string(desc.Table)), strings.Join(lines, ",\n    "))
}

func adminSchema(d database.Dialect) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS admin_users (
	id VARCHAR(36) NOT NULL PRIMARY KEY,
	email %[1]s NOT NULL UNIQUE,
	password_hash %[1]s NOT NULL,
	created_at %[2]s NOT NULL,
	updated_at %[2]s NOT NULL
)`, d.ShortText, d.Timestamp),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS refresh_tokens (
	id VARCHAR(36) NOT NULL PRIMARY KEY,
	admin_id VARCHAR(36) NOT NULL,
	token_hash VARCHAR(64) NOT NULL UNIQUE,
	expires_at %[1]s NOT NULL,
	revoked_at %[1]s NULL,
	created_at %[1]s NOT NULL
)`, d.Timestamp),
	}
}
