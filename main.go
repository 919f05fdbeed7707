package main

import (
	"os"

	"github.com/oss-mentor/issue-scout/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
