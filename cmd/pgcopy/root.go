package main

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	binarycodec "github.com/go-data-exporter/pgcopy/codec/binary"
	"github.com/go-data-exporter/pgcopy/scanner"
	"github.com/go-data-exporter/pgcopy/typemap"
)

type rootConfig struct {
	types     string
	input     string
	header    bool
	null      string
	delimiter string
	chunkSize string
	limit     int64
	verbose   bool
}

func newRootCmd() *cobra.Command {
	cfg := &rootConfig{}
	return buildRootCmd(cfg)
}

func buildRootCmd(cfg *rootConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "pgcopy",
		Short:         "Encode CSV as PostgreSQL binary COPY data",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newEncodeCmd(cfg))
	cmd.AddCommand(newLoadCmd(cfg))

	f := cmd.PersistentFlags()
	f.StringVarP(&cfg.types, "types", "t", "", "comma-separated column types, e.g. int4,text,timestamptz")
	f.StringVarP(&cfg.input, "in", "i", "-", "input CSV file (- for stdin)")
	f.BoolVar(&cfg.header, "header", false, "skip the first CSV record")
	f.StringVar(&cfg.null, "null", scanner.DefaultCSVNull, "CSV field value read as NULL (empty makes every empty field NULL)")
	f.StringVar(&cfg.delimiter, "delimiter", ",", "CSV field delimiter")
	f.StringVar(&cfg.chunkSize, "chunk-size", "64KiB", "bytes encoded per write")
	f.Int64Var(&cfg.limit, "limit", -1, "stop after this many rows (-1 for all)")
	f.BoolVarP(&cfg.verbose, "verbose", "v", false, "log progress to stderr")

	return cmd
}

// columnTypes parses --types.
func (c *rootConfig) columnTypes() ([]typemap.Type, error) {
	if strings.TrimSpace(c.types) == "" {
		return nil, errors.New("--types is required")
	}
	return typemap.NewMap().ParseTypes(strings.Split(c.types, ","))
}

// openInput opens --in, falling back to stdin.
func (c *rootConfig) openInput(cmd *cobra.Command) (io.ReadCloser, error) {
	if c.input == "" || c.input == "-" {
		return io.NopCloser(cmd.InOrStdin()), nil
	}
	f, err := os.Open(c.input)
	if err != nil {
		return nil, errors.Wrap(err, "open input")
	}
	return f, nil
}

func (c *rootConfig) rows(r io.Reader) (scanner.Rows, error) {
	if utf8.RuneCountInString(c.delimiter) != 1 {
		return nil, errors.Newf("--delimiter must be a single character, got %q", c.delimiter)
	}
	delimiter, _ := utf8.DecodeRuneInString(c.delimiter)
	return scanner.FromCSV(r,
		scanner.WithCSVHeader(c.header),
		scanner.WithCSVDelimiter(delimiter),
		scanner.WithCSVNull(c.null),
	), nil
}

func (c *rootConfig) streamOptions(logger *slog.Logger) ([]binarycodec.Option, error) {
	size, err := humanize.ParseBytes(c.chunkSize)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid --chunk-size %q", c.chunkSize)
	}
	if size == 0 || size > 1<<30 {
		return nil, errors.Newf("--chunk-size must be between 1B and 1GiB, got %s", c.chunkSize)
	}
	return []binarycodec.Option{
		binarycodec.WithChunkSize(int(size)),
		binarycodec.WithLimit(c.limit),
		binarycodec.WithLogger(logger),
	}, nil
}

func (c *rootConfig) logger(cmd *cobra.Command) *slog.Logger {
	if !c.verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug}))
}
