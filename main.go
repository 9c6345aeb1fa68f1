package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/itchio/detour/buildinfo"
	"github.com/itchio/detour/comm"
	"github.com/itchio/detour/mansion"
	kingpin "gopkg.in/alecthomas/kingpin.v2"
)

var app = kingpin.New("detour", "Your very own junction point wrangler")

var appArgs = struct {
	json       *bool
	quiet      *bool
	verbose    *bool
	timestamps *bool
	panic      *bool
}{
	app.Flag("json", "Enable machine-readable JSON-lines output").Short('j').Bool(),
	app.Flag("quiet", "Hide extra info").Short('q').Bool(),
	app.Flag("verbose", "Display as much extra info as possible").Short('v').Bool(),
	app.Flag("timestamps", "Prefix all output by timestamps (for logging purposes)").Bool(),
	app.Flag("panic", "Panic instead of exiting on error conditions").Hidden().Bool(),
}

func main() {
	app.HelpFlag.Short('h')
	app.Version(buildinfo.VersionString)
	app.VersionFlag.Short('V')

	ctx := mansion.NewContext(app)
	ctx.Version = buildinfo.Version
	ctx.VersionString = buildinfo.VersionString
	ctx.Commit = buildinfo.Commit
	registerCommands(ctx)

	cmd, err := app.Parse(os.Args[1:])
	if *appArgs.timestamps {
		log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	} else {
		log.SetFlags(0)
	}

	ctx.Quiet = *appArgs.quiet
	ctx.Verbose = *appArgs.verbose
	ctx.JSON = *appArgs.json
	comm.Configure(ctx.Quiet, ctx.Verbose, ctx.JSON, *appArgs.panic)

	// anything logging through log/slog ends up speaking comm's
	// protocol too, instead of scribbling over the JSON stream
	slogLevel := slog.Leveler(slog.LevelInfo)
	if ctx.Verbose {
		slogLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(comm.NewSlogHandler(slogLevel)))

	fullCmd := kingpin.MustParse(cmd, err)
	if do, ok := ctx.Commands[fullCmd]; ok {
		do(ctx)
	} else {
		comm.Dief("Unknown command: %s", fullCmd)
	}
}
