package commands

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"dsaps/internal/cli/bootstrap"
	"dsaps/internal/cli/model"
	"dsaps/internal/cli/service"
	"dsaps/internal/config"
)

type ingestCmd struct{}

func (ingestCmd) Name() string        { return "ingest" }
func (ingestCmd) Description() string { return "Post items from a metadata CSV (and their files) to a collection" }
func (ingestCmd) Usage() string {
	return "ingest <collection-uuid> <metadata.csv> <field-map> [bitstream-dir [ext]]"
}

func (ingestCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 3 || len(args) > 5 {
		return ErrUsage
	}
	collID, csvPath, mapPath := args[0], args[1], args[2]
	dir, ext := "", ""
	if len(args) > 3 {
		dir = args[3]
	}
	if len(args) > 4 {
		ext = args[4]
	}

	coll, err := service.PrepareCollection(csvPath, mapPath, dir, ext)
	if err != nil {
		return err
	}
	c, err := openClient(cfg)
	if err != nil {
		return err
	}
	ledger, done, err := bootstrap.OpenLedger(cfg)
	if err != nil {
		return err
	}
	defer done()

	svc := service.NewIngestService(c, ledger, logger)
	res, err := svc.Ingest(ctx, collID, coll, func(it *model.Item) {
		fmt.Fprintf(Out, "posted %s  %s  %s  files=%d\n", it.FileIdentifier, it.UUID, it.Handle, len(it.Bitstreams))
	})
	fmt.Fprintf(Out, "Posted: %d, skipped: %d, total: %d\n", res.Posted, res.Skipped, len(coll.Items))
	return err
}

type ledgerCmd struct{}

func (ledgerCmd) Name() string        { return "ledger" }
func (ledgerCmd) Description() string { return "Show the local ingest ledger" }
func (ledgerCmd) Usage() string       { return "ledger [collection-uuid]" }

func (ledgerCmd) Run(_ context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	coll := ""
	if len(args) == 1 {
		coll = args[0]
	}
	ledger, done, err := bootstrap.OpenLedger(cfg)
	if err != nil {
		return err
	}
	defer done()
	list, err := ledger.List(coll)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(Out, "No entries")
		return nil
	}
	tw := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "WHEN\tCOLLECTION\tFILE ID\tITEM\tHANDLE\tFILES\tSTATUS")
	for _, e := range list {
		status := e.Status
		if e.Error != "" {
			status += ": " + e.Error
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
			time.Unix(e.CreatedAt, 0).Format(time.RFC3339), e.CollectionUUID, e.FileIdentifier,
			e.ItemUUID, e.Handle, e.Bitstreams, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Total: %d\n", len(list))
	return nil
}

func init() {
	RegisterCmd(ingestCmd{})
	RegisterCmd(ledgerCmd{})
}
