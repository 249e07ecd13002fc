package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/spf13/cobra"

	"github.com/go-data-exporter/pgcopy/copyin"
)

const dsnEnv = "PGCOPY_DSN"

type loadConfig struct {
	dsn     string
	table   string
	columns string
}

func newLoadCmd(cfg *rootConfig) *cobra.Command {
	lc := &loadConfig{}
	cmd := &cobra.Command{
		Use:   "load",
		Short: "Copy CSV input into a PostgreSQL table using binary COPY",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			lc.resolveEnvVars(cmd.Flags().Changed)
			return lc.validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoad(cmd, cfg, lc)
		},
	}
	f := cmd.Flags()
	f.StringVar(&lc.dsn, "dsn", "", "PostgreSQL connection string (or "+dsnEnv+" env)")
	f.StringVar(&lc.table, "table", "", "target table, optionally schema-qualified")
	f.StringVar(&lc.columns, "columns", "", "comma-separated target columns (default: all, in table order)")
	return cmd
}

// resolveEnvVars applies env var values for flags not explicitly set via CLI.
func (c *loadConfig) resolveEnvVars(changed func(string) bool) {
	if changed("dsn") {
		return
	}
	if v := os.Getenv(dsnEnv); v != "" {
		c.dsn = v
	}
}

func (c *loadConfig) validate() error {
	if c.dsn == "" {
		return errors.Newf("--dsn or %s is required", dsnEnv)
	}
	if c.table == "" {
		return errors.New("--table is required")
	}
	return nil
}

func (c *loadConfig) identifier() pgx.Identifier {
	return pgx.Identifier(strings.Split(c.table, "."))
}

func (c *loadConfig) columnList() []string {
	if strings.TrimSpace(c.columns) == "" {
		return nil
	}
	cols := strings.Split(c.columns, ",")
	for i := range cols {
		cols[i] = strings.TrimSpace(cols[i])
	}
	return cols
}

func runLoad(cmd *cobra.Command, cfg *rootConfig, lc *loadConfig) error {
	types, err := cfg.columnTypes()
	if err != nil {
		return err
	}
	logger := cfg.logger(cmd)
	opts, err := cfg.streamOptions(logger)
	if err != nil {
		return err
	}
	in, err := cfg.openInput(cmd)
	if err != nil {
		return err
	}
	defer in.Close()
	rows, err := cfg.rows(in)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	conn, err := pgx.Connect(ctx, lc.dsn)
	if err != nil {
		return errors.Wrap(err, "connect")
	}
	defer conn.Close(ctx)

	n, err := copyin.Load(ctx, conn, lc.identifier(), lc.columnList(), types, rows,
		copyin.WithLogger(logger),
		copyin.WithStreamOptions(opts...),
	)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "COPY %d\n", n)
	return err
}
