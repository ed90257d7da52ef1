// SafeCompanion - a safety companion for people living alone.
package main

import (
	"github.com/manav03panchal/safecompanion/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		cmd.Die(err)
	}
}
