package main

import (
	"context"
	"fmt"
	"os"

	"pg-portal/commands"
)

func main() {
	if err := commands.RootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
