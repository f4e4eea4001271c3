package main

import (
	"os"

	"github.com/templar-lang/templar/pkg/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
