package commands

import (
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/nortreport/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing links document"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	return RunInit(os.Stdout, root.Config, i.Force)
}

func RunInit(out io.Writer, configPath string, force bool) error {
	if err := config.Init(configPath, force); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "wrote example links document to %s\n", configPath)
	return nil
}
