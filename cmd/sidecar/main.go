package main

import (
	"os"

	"github.com/studiofoundry/sidecar/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
