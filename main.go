package main

import (
	"os"

	"github.com/chaudhari-piyush/talentlens/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
