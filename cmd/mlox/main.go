package main

import (
	"os"

	"github.com/msto63/mlox/cmd/mlox/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
