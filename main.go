package main

import (
	"fmt"

	"github.com/goaclib/goac/cmd"
)

// main entry point to training and plotting
func main() {
	rootCommand := cmd.GetRootCommand()
	if err := rootCommand.Execute(); err != nil {
		fmt.Println(err)
	}
}
