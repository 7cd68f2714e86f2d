package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"dsaps/internal/cli/report"
	"dsaps/internal/config"
)

type reportCmd struct{}

func (reportCmd) Name() string { return "report" }
func (reportCmd) Description() string {
	return "Write a CSV of every value of a metadata key in a collection"
}
func (reportCmd) Usage() string { return "report <key> <collection-handle>" }

func (reportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	key, handle := args[0], args[1]
	c, err := openClient(cfg)
	if err != nil {
		return err
	}
	rows, err := report.NewGenerator(c, logger).Generate(ctx, key, handle)
	if err != nil {
		return err
	}

	dir := cfg.ReportDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path := filepath.Join(dir, report.FileName(key, handle))
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := report.WriteCSV(f, key, rows); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Wrote %d rows to %s\n", len(rows), path)
	return nil
}

func init() { RegisterCmd(reportCmd{}) }
