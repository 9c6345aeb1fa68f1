package pin

import (
	"github.com/itchio/detour/comm"
	"github.com/itchio/detour/junction"
	"github.com/itchio/detour/mansion"
)

var args = struct {
	path      *string
	target    *string
	overwrite *bool
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("pin", "Create a junction point redirecting a directory to another local directory")
	args.path = cmd.Arg("path", "Where the junction lives").Required().String()
	args.target = cmd.Arg("target", "Existing directory the junction redirects to").Required().String()
	args.overwrite = cmd.Flag("overwrite", "Rewrite the target if the junction path is already a directory").Bool()
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	ctx.Must(Do(ctx, *args.path, *args.target, *args.overwrite))
}

func Do(ctx *mansion.Context, path string, target string, overwrite bool) error {
	comm.Opf("Pinning %s => %s", path, target)

	err := junction.Create(path, target, overwrite)
	if err != nil {
		return err
	}

	// echo back the target as the filesystem resolved it
	resolved, err := junction.GetTarget(path)
	if err != nil {
		return err
	}

	comm.Result(&mansion.JunctionResult{
		Type:   "junction-created",
		Path:   path,
		Target: resolved,
	})
	comm.Statf("Junction in place, redirecting to %s", resolved)
	return nil
}
