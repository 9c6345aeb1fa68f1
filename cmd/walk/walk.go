package walk

import (
	"os"
	"path/filepath"

	"github.com/itchio/detour/comm"
	"github.com/itchio/detour/junction"
	"github.com/itchio/detour/mansion"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
)

var args = struct {
	root *string
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("walk", "Walk a directory tree and list every junction point in it")
	args.root = cmd.Arg("root", "Directory to walk").Required().String()
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	ctx.Must(Do(ctx, *args.root))
}

func Do(ctx *mansion.Context, root string) error {
	consumer := comm.NewStateConsumer()

	var rows [][]string

	onEntry := func(path string, f os.FileInfo, err error) error {
		if err != nil {
			consumer.Warnf("ignoring error %s", err.Error())
			return nil
		}
		// junctions show up with the symlink mode bit, plain
		// directories without; files can't be junctions at all
		if !f.IsDir() && f.Mode()&os.ModeSymlink == 0 {
			return nil
		}

		ok, err := junction.Exists(path)
		if err != nil {
			consumer.Warnf("skipping %s: %s", path, err.Error())
			return nil
		}
		if !ok {
			return nil
		}

		target, err := junction.GetTarget(path)
		if err != nil {
			consumer.Warnf("skipping %s: %s", path, err.Error())
			return nil
		}

		comm.Result(&mansion.WalkResult{
			Type:   "junction",
			Path:   path,
			Target: target,
		})
		rows = append(rows, []string{path, target})
		return nil
	}

	// filepath.Walk doesn't descend into junctions (symlink mode),
	// which conveniently keeps us out of redirection loops
	err := filepath.Walk(root, onEntry)
	if err != nil {
		return errors.WithStack(err)
	}

	if comm.JsonEnabled() {
		return nil
	}

	if len(rows) == 0 {
		comm.Logf("No junction points under %s", root)
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Junction", "Target"})
	for _, row := range rows {
		table.Append(row)
	}
	table.Render()
	return nil
}
