package main

import (
	"os"

	"github.com/orgvault/orgvault/pkg/cli/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
