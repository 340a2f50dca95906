package migrate

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	sqlite "github.com/grdsdev/sqlite-go"
)

// FromFS loads every *.sql file at the root of fsys as one migration each,
// ordered by filename (lexicographic). The filename is the migration name,
// so a convention like 001_create_users.sql keeps registration order stable.
// A file may hold several semicolon-terminated statements.
func FromFS(fsys fs.FS) ([]Migration, error) {
	names, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("glob migrations: %w", err)
	}
	sort.Strings(names)

	out := make([]Migration, 0, len(names))
	for _, name := range names {
		raw, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		statements := SplitStatements(string(raw))
		out = append(out, Func(name, func(tx *sqlite.Tx) error {
			for _, stmt := range statements {
				if _, err := tx.Execute(stmt); err != nil {
					return err
				}
			}
			return nil
		}))
	}
	return out, nil
}

// SplitStatements splits SQL text on semicolons that sit outside single or
// double quoted literals, dropping empty fragments. SQL comments are not
// recognized, so a semicolon inside a comment ends a statement.
func SplitStatements(sql string) []string {
	var out []string
	var b strings.Builder
	var quote rune
	for _, r := range sql {
		switch {
		case quote != 0:
			b.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
			b.WriteRune(r)
		case r == ';':
			if s := strings.TrimSpace(b.String()); s != "" {
				out = append(out, s)
			}
			b.Reset()
		default:
			b.WriteRune(r)
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		out = append(out, s)
	}
	return out
}
