package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	sqlite "github.com/grdsdev/sqlite-go"
	"github.com/grdsdev/sqlite-go/internal/config"
)

func newExecCommand(out io.Writer, configPath *string) *cobra.Command {
	var (
		dbPath string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "exec <sql> [arg...]",
		Short: "Execute one SQL statement and print its rows",
		Long: `Execute one SQL statement against the database. Extra arguments are bound
as text to ?-style positional placeholders in order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			conn, err := openDatabase(dbPath, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			bindings := make([]sqlite.Value, 0, len(args)-1)
			for _, a := range args[1:] {
				bindings = append(bindings, sqlite.Text(a))
			}
			rows, err := conn.Execute(args[0], bindings...)
			if err != nil {
				return err
			}

			if asJSON {
				return writeRowsJSON(out, rows)
			}
			writeRowsText(out, rows)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", `Database path (":memory:" for a transient database)`)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print rows as JSON")
	return cmd
}

func writeRowsText(out io.Writer, rows []sqlite.Row) {
	if len(rows) == 0 {
		return
	}
	fmt.Fprintln(out, strings.Join(rows[0].Columns(), "\t"))
	for _, row := range rows {
		fields := make([]string, row.Len())
		for i := range fields {
			fields[i] = formatValue(row.At(i))
		}
		fmt.Fprintln(out, strings.Join(fields, "\t"))
	}
}

func writeRowsJSON(out io.Writer, rows []sqlite.Row) error {
	objects := make([]map[string]any, len(rows))
	for i, row := range rows {
		obj := make(map[string]any, row.Len())
		for j, name := range row.Columns() {
			obj[name] = goValue(row.At(j))
		}
		objects[i] = obj
	}
	enc := json.NewEncoder(out)
	return enc.Encode(objects)
}

func formatValue(v sqlite.Value) string {
	switch v := v.(type) {
	case sqlite.Null:
		return "NULL"
	case sqlite.Integer:
		return fmt.Sprintf("%d", int64(v))
	case sqlite.Real:
		return fmt.Sprintf("%g", float64(v))
	case sqlite.Text:
		return string(v)
	case sqlite.Blob:
		return fmt.Sprintf("x'%x'", []byte(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}

func goValue(v sqlite.Value) any {
	switch v := v.(type) {
	case sqlite.Null:
		return nil
	case sqlite.Integer:
		return int64(v)
	case sqlite.Real:
		return float64(v)
	case sqlite.Text:
		return string(v)
	case sqlite.Blob:
		return []byte(v)
	default:
		return nil
	}
}
