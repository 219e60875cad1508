package main

import (
	"context"
	"fmt"
	"os"

	"waterlog/internal/cli"
	"waterlog/internal/config"
)

func main() {
	cli.LoadEnvFile()

	root := cli.NewRootCommand(config.Load(), os.Stderr)
	if err := cli.Execute(context.Background(), root); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
