package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/grdsdev/sqlite-go/internal/config"
	"github.com/grdsdev/sqlite-go/migrate"
)

func newMigrateCommand(out io.Writer, configPath *string) *cobra.Command {
	var (
		dbPath string
		dir    string
		table  string
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending .sql migrations from a directory",
		Long: `Load every *.sql file in the migrations directory, in filename order, and
apply the ones not yet recorded in the ledger table. The whole run is one
transaction: on failure nothing is applied.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger, closeLog, err := newLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer closeLog()

			migrations, err := migrate.FromFS(os.DirFS(dir))
			if err != nil {
				return err
			}

			if table == "" {
				table = cfg.Database.LedgerTable
			}
			runner, err := migrate.New(table)
			if err != nil {
				return err
			}
			for _, m := range migrations {
				runner.Add(m)
			}

			conn, err := openDatabase(dbPath, cfg)
			if err != nil {
				return err
			}
			defer func() { _ = conn.Close() }()

			if err := runner.Run(conn); err != nil {
				logger.Error("migration run failed", "dir", dir, "table", table, "error", err)
				return err
			}
			logger.Info("migration run finished", "dir", dir, "table", table, "registered", len(migrations))
			_, err = fmt.Fprintf(out, "%d migrations registered; ledger %s is up to date\n", len(migrations), table)
			return err
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", `Database path (":memory:" for a transient database)`)
	cmd.Flags().StringVar(&dir, "dir", "migrations", "Directory of .sql migration files")
	cmd.Flags().StringVar(&table, "table", "", "Ledger table name (default from config)")
	return cmd
}
