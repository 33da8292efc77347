package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/bryanwahyu/idea-analyzer/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if !errors.Is(err, cli.ErrAnalysisFailed) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}
