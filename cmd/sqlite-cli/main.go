package main

import (
	"fmt"
	"os"

	"github.com/grdsdev/sqlite-go/internal/cli"
	"github.com/grdsdev/sqlite-go/internal/version"
)

func main() {
	cmd := cli.NewRootCommand(os.Stdout, cli.BuildInfo{
		Version:   version.Version,
		Commit:    version.Commit,
		BuildTime: version.BuildTime,
	})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "sqlite-cli:", err)
		os.Exit(1)
	}
}
