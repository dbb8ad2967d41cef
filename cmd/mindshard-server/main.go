package main

import (
	"context"
	"os"

	"github.com/mindshard/mindshard-server/cmd/mindshard-server/cmd"
)

func main() {
	command := cmd.RootCmd
	if err := command.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
