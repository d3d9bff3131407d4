// Package main is the entry point of the watchroom command.
package main

import (
	"github.com/samber/lo"
	"github.com/watchroom/watchroom/cmd"
	"github.com/watchroom/watchroom/config"
	"github.com/watchroom/watchroom/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
