package probe

import (
	"github.com/itchio/detour/comm"
	"github.com/itchio/detour/junction"
	"github.com/itchio/detour/mansion"
)

var args = struct {
	path *string
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("probe", "Tell whether a path is a junction point, and where it leads")
	args.path = cmd.Arg("path", "Path to inspect").Required().String()
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	ctx.Must(Do(ctx, *args.path))
}

func Do(ctx *mansion.Context, path string) error {
	ok, err := junction.Exists(path)
	if err != nil {
		return err
	}

	if !ok {
		comm.ResultOrPrint(&mansion.ProbeResult{
			Type:     "probe",
			Path:     path,
			Junction: false,
		}, func() {
			comm.Logf("%s: not a junction point", path)
		})
		return nil
	}

	target, err := junction.GetTarget(path)
	if err != nil {
		return err
	}

	comm.ResultOrPrint(&mansion.ProbeResult{
		Type:     "probe",
		Path:     path,
		Junction: true,
		Target:   target,
	}, func() {
		comm.Logf("%s => %s", path, target)
	})
	return nil
}
