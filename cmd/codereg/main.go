package main

import (
	"os"

	"github.com/dshills/codereg/internal/cli"
)

func main() {
	os.Exit(cli.Run())
}
