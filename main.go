package main

import (
	"fmt"
	"os"

	"code.cloudfoundry.org/taskgraph/cmd"
)

var version = "0.0.0"

func main() {
	if err := cmd.Execute(version); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
