package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"dsaps/internal/cli/api"
	"dsaps/internal/cli/bootstrap"
	"dsaps/internal/cli/model"
	fsrepo "dsaps/internal/cli/repo/fs"
	"dsaps/internal/config"
)

func openClient(cfg *config.Config) (*api.Client, error) {
	return bootstrap.OpenClient(cfg, fsrepo.SessionFSStore{}, logger)
}

type searchCmd struct{}

func (searchCmd) Name() string        { return "search" }
func (searchCmd) Description() string { return "List item links matching a filtered-items query" }
func (searchCmd) Usage() string {
	return "search <field> <op> [value] [collection-uuid...]"
}

func (searchCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return ErrUsage
	}
	op, err := api.ParseQueryOp(args[1])
	if err != nil {
		return err
	}
	q := api.SearchQuery{Field: args[0], Op: op}
	rest := args[2:]
	if op != api.OpExists && op != api.OpDoesntExist {
		if len(rest) == 0 {
			return ErrUsage
		}
		q.Value, rest = rest[0], rest[1:]
	}
	q.Collections = rest

	c, err := openClient(cfg)
	if err != nil {
		return err
	}
	links, err := c.FilteredItemSearch(ctx, q)
	if err != nil {
		return err
	}
	for _, l := range links {
		fmt.Fprintln(Out, l)
	}
	fmt.Fprintf(Out, "Total: %d\n", len(links))
	return nil
}

type handleCmd struct{}

func (handleCmd) Name() string        { return "handle" }
func (handleCmd) Description() string { return "Resolve a handle to its UUID" }
func (handleCmd) Usage() string       { return "handle <handle>" }

func (handleCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	c, err := openClient(cfg)
	if err != nil {
		return err
	}
	id, err := c.GetIDFromHandle(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, id)
	return nil
}

type getCmd struct{}

func (getCmd) Name() string        { return "get" }
func (getCmd) Description() string { return "Fetch a record and print it as JSON" }
func (getCmd) Usage() string       { return "get <items|communities|collections> <uuid>" }

func (getCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	kind, err := model.ParseRecordKind(args[0])
	if err != nil {
		return err
	}
	c, err := openClient(cfg)
	if err != nil {
		return err
	}
	rec, err := c.GetRecord(ctx, args[1], kind)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, string(b))
	return nil
}

type newCollectionCmd struct{}

func (newCollectionCmd) Name() string        { return "new-collection" }
func (newCollectionCmd) Description() string { return "Create a collection inside a community" }
func (newCollectionCmd) Usage() string       { return "new-collection <community-handle> <name>" }

func (newCollectionCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 || args[1] == "" {
		return ErrUsage
	}
	c, err := openClient(cfg)
	if err != nil {
		return err
	}
	id, err := c.PostCollToComm(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(Out, "Collection created: %s\n", id)
	return nil
}

func init() {
	RegisterCmd(searchCmd{})
	RegisterCmd(handleCmd{})
	RegisterCmd(getCmd{})
	RegisterCmd(newCollectionCmd{})
}
