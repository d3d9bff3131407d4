package version

import (
	"fmt"

	"github.com/spf13/viper"
	"github.com/watchroom/watchroom/color"
	"github.com/watchroom/watchroom/constant"
	"github.com/watchroom/watchroom/icon"
	"github.com/watchroom/watchroom/key"
	"github.com/watchroom/watchroom/style"
	"github.com/watchroom/watchroom/util"
)

// Notify prints a notice when a newer release exists. It is silent when the check is
// disabled or the lookup fails.
func Notify() {
	if !viper.GetBool(key.CliVersionCheck) {
		return
	}

	erase := util.PrintErasable(fmt.Sprintf("%s Checking if new version is available...", icon.Get(icon.Progress)))
	latest, err := Latest()
	erase()
	if err != nil {
		return
	}

	if comp, err := Compare(latest, constant.Version); err != nil || comp <= 0 {
		return
	}

	fmt.Printf(`
%s New version is available %s %s
%s

`,
		style.Fg(color.Green)("▇▇▇"),
		style.Bold(latest),
		style.Faint(fmt.Sprintf("(You're on %s)", constant.Version)),
		style.Faint(fmt.Sprintf("https://github.com/%s/releases/tag/v%s", constant.Repository, latest)),
	)
}
