package main

import (
	"fmt"
	"os"

	"github.com/kendrickl1675/Lecture-Agent/internal/cli"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	info := cli.BuildInfo{Version: Version, Commit: Commit}
	if err := cli.Execute(info, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
