package main

import (
	"github.com/itchio/detour/cmd/apply"
	"github.com/itchio/detour/cmd/pin"
	"github.com/itchio/detour/cmd/probe"
	"github.com/itchio/detour/cmd/unpin"
	"github.com/itchio/detour/cmd/version"
	"github.com/itchio/detour/cmd/walk"
	"github.com/itchio/detour/mansion"
)

// Each of these specify their own arguments and flags in
// their own package.
func registerCommands(ctx *mansion.Context) {
	pin.Register(ctx)
	unpin.Register(ctx)
	probe.Register(ctx)
	walk.Register(ctx)

	apply.Register(ctx)

	version.Register(ctx)
}
