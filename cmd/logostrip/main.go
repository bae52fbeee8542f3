package main

import (
	"os"

	"github.com/Fepozopo/logostrip/pkg/cli"
)

func main() {
	os.Exit(cli.RunCLI(os.Args[1:]))
}
