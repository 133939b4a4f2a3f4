package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/hypergraph/internal/cli"
)

func main() {
	cobra.CheckErr(cli.NewCLI().ExecuteContext(context.Background()))
}
