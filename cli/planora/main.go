package main

import (
	"fmt"
	"os"

	planoracmder "github.com/planora/planora/cmd/planora"
	"github.com/planora/planora/pkg/cliui"
)

func main() {
	cmd := planoracmder.NewPlanoraCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "  %s %v\n", cliui.FailMark, err)
		os.Exit(1)
	}
}
