package apply

import (
	"github.com/BurntSushi/toml"
	"github.com/itchio/detour/comm"
	"github.com/itchio/detour/junction"
	"github.com/itchio/detour/mansion"
	"github.com/pkg/errors"
)

var args = struct {
	manifest *string
	dryRun   *bool
}{}

func Register(ctx *mansion.Context) {
	cmd := ctx.App.Command("apply", "Create every junction listed in a TOML manifest, in order")
	args.manifest = cmd.Arg("manifest", "Path to a junction manifest").Required().String()
	args.dryRun = cmd.Flag("dry-run", "Print what would be pinned without touching anything").Bool()
	ctx.Register(cmd, do)
}

func do(ctx *mansion.Context) {
	ctx.Must(Do(ctx, *args.manifest, *args.dryRun))
}

// A Manifest is what provisioning scripts hand us: the junctions a
// given install wants, in the order they should be created.
type Manifest struct {
	Junctions []Entry `toml:"junction"`
}

type Entry struct {
	Path      string `toml:"path"`
	Target    string `toml:"target"`
	Overwrite bool   `toml:"overwrite"`
}

func Do(ctx *mansion.Context, manifestPath string, dryRun bool) error {
	manifest, err := ParseManifest(manifestPath)
	if err != nil {
		return err
	}

	if len(manifest.Junctions) == 0 {
		comm.Warnf("Manifest %s lists no junctions", manifestPath)
	}

	applied := 0
	for _, entry := range manifest.Junctions {
		if entry.Path == "" || entry.Target == "" {
			return errors.Errorf("manifest entry needs both path and target, got path=%q target=%q", entry.Path, entry.Target)
		}

		if dryRun {
			comm.Opf("Would pin %s => %s", entry.Path, entry.Target)
			continue
		}

		comm.Opf("Pinning %s => %s", entry.Path, entry.Target)
		err := junction.Create(entry.Path, entry.Target, entry.Overwrite)
		if err != nil {
			// stop at the first failure: later entries may well
			// depend on earlier junctions being in place
			return errors.WithMessagef(err, "applying %s", entry.Path)
		}
		applied++
	}

	comm.Result(&mansion.AppliedResult{
		Type:    "applied",
		Applied: applied,
		DryRun:  dryRun,
	})
	if dryRun {
		comm.Statf("Dry run, %d junction(s) would be applied", len(manifest.Junctions))
	} else {
		comm.Statf("Applied %d junction(s)", applied)
	}
	return nil
}

// ParseManifest reads and decodes a junction manifest.
func ParseManifest(path string) (*Manifest, error) {
	manifest := &Manifest{}
	_, err := toml.DecodeFile(path, manifest)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return manifest, nil
}
