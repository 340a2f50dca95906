// Package migrate applies ordered, named, idempotent schema migrations to a
// sqlite connection. Applied migration names are recorded in a ledger table
// so each migration runs exactly once, and every run is all-or-nothing: the
// first failure rolls back everything the run had applied so far.
package migrate

import (
	"errors"
	"fmt"
	"regexp"

	sqlite "github.com/grdsdev/sqlite-go"
)

// DefaultTable is the ledger table used when no name is configured.
const DefaultTable = "_migrations"

// ErrBadTableName reports a ledger table name outside [A-Za-z0-9_]+.
var ErrBadTableName = errors.New("migrate: invalid ledger table name")

var tableName = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// Migration is a single named schema change. Name doubles as the idempotency
// key in the ledger; Apply performs the change through the migration run's
// transaction.
type Migration interface {
	Name() string
	Apply(tx *sqlite.Tx) error
}

// Func adapts a name and a closure into a Migration.
func Func(name string, fn func(tx *sqlite.Tx) error) Migration {
	return funcMigration{name: name, fn: fn}
}

type funcMigration struct {
	name string
	fn   func(tx *sqlite.Tx) error
}

func (m funcMigration) Name() string              { return m.name }
func (m funcMigration) Apply(tx *sqlite.Tx) error { return m.fn(tx) }

// Runner holds an ordered sequence of migrations. Registration order is the
// only ordering signal. Names are not checked for uniqueness: once a name
// has a ledger row, any later migration registered under the same name is
// skipped as already applied. Callers own name uniqueness.
type Runner struct {
	table      string
	migrations []Migration
}

// New returns a Runner that records applied migrations in table, or in
// DefaultTable when table is empty. The table name is validated here, once,
// so Run can splice it into statement text directly.
func New(table string) (*Runner, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("%w: %q", ErrBadTableName, table)
	}
	return &Runner{table: table}, nil
}

// Add appends m to the end of the run order.
func (r *Runner) Add(m Migration) {
	r.migrations = append(r.migrations, m)
}

// AddFunc appends a closure migration registered under name.
func (r *Runner) AddFunc(name string, fn func(tx *sqlite.Tx) error) {
	r.Add(Func(name, fn))
}

// Run applies every registered migration whose name is not yet recorded in
// the ledger, in registration order, inside a single transaction. The first
// failure aborts the run: later migrations are not attempted, the
// transaction is rolled back, and the ledger gains no rows.
func (r *Runner) Run(conn *sqlite.Conn) error {
	if err := r.ensureLedger(conn); err != nil {
		return err
	}
	applied, err := r.appliedNames(conn)
	if err != nil {
		return err
	}

	return conn.WithTx(func(tx *sqlite.Tx) error {
		for _, m := range r.migrations {
			if applied[m.Name()] {
				continue
			}
			if err := m.Apply(tx); err != nil {
				return fmt.Errorf("apply migration %q: %w", m.Name(), err)
			}
			if _, err := tx.Execute(`INSERT INTO `+r.table+` (name) VALUES (?)`, sqlite.Text(m.Name())); err != nil {
				return fmt.Errorf("record migration %q: %w", m.Name(), err)
			}
			// A later registration under the same name is now already applied.
			applied[m.Name()] = true
		}
		return nil
	})
}

func (r *Runner) ensureLedger(conn *sqlite.Conn) error {
	if _, err := conn.Execute(`CREATE TABLE IF NOT EXISTS ` + r.table + ` (name TEXT PRIMARY KEY)`); err != nil {
		return fmt.Errorf("ensure ledger table %s: %w", r.table, err)
	}
	return nil
}

func (r *Runner) appliedNames(conn *sqlite.Conn) (map[string]bool, error) {
	rows, err := conn.Execute(`SELECT name FROM ` + r.table)
	if err != nil {
		return nil, fmt.Errorf("load applied migrations: %w", err)
	}
	applied := make(map[string]bool, len(rows))
	for _, row := range rows {
		if name, ok := row.At(0).(sqlite.Text); ok {
			applied[string(name)] = true
		}
	}
	return applied, nil
}
