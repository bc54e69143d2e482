package main

import (
	"os"

	"github.com/cottand/ocl/cmd"
)

func main() {
	err := cmd.NewRoot().Execute()
	if err != nil {
		os.Exit(1)
	}
}
