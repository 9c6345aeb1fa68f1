package unpin

import (
	"github.com/itchio/detour/comm"
	"github.com/itchio/detour/junction"
	"github.com/itchio/detour/mansion"
)

var args = struct {
	path *string
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("unpin", "Remove a junction point (never touches its target)")
	args.path = cmd.Arg("path", "Junction to remove").Required().String()
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	ctx.Must(Do(ctx, *args.path))
}

func Do(ctx *mansion.Context, path string) error {
	comm.Opf("Unpinning %s", path)

	err := junction.Delete(path)
	if err != nil {
		return err
	}

	comm.Result(&mansion.JunctionResult{
		Type: "junction-removed",
		Path: path,
	})
	comm.Statf("Junction removed")
	return nil
}
