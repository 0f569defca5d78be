// Package main is the entry point registered as the mpv:// protocol handler.
package main

import (
	"github.com/mpv-handler/mpv-handler/cmd"
	"github.com/mpv-handler/mpv-handler/config"
	"github.com/mpv-handler/mpv-handler/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
