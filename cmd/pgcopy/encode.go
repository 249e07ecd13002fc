package main

import (
	"github.com/spf13/cobra"

	"github.com/go-data-exporter/pgcopy"
	"github.com/go-data-exporter/pgcopy/codec"
)

func newEncodeCmd(cfg *rootConfig) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Write CSV input as a binary COPY file",
		Long: `Write CSV input as a binary COPY file, suitable for
COPY table FROM 'file' (FORMAT binary) or psql's \copy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, cfg, output)
		},
	}
	cmd.Flags().StringVarP(&output, "out", "o", "-", "output file (- for stdout)")
	return cmd
}

func runEncode(cmd *cobra.Command, cfg *rootConfig, output string) error {
	types, err := cfg.columnTypes()
	if err != nil {
		return err
	}
	opts, err := cfg.streamOptions(cfg.logger(cmd))
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

	e := pgcopy.New(rows, codec.Binary(types, opts...))
	if output == "" || output == "-" {
		return e.Write(cmd.OutOrStdout())
	}
	return e.WriteFile(output)
}
