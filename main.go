package main

import (
	"os"

	"github.com/foomo/recorddescription-mcp/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
