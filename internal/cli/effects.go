package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/glitchzine/pkg/config"
	"github.com/matzehuels/glitchzine/pkg/effect"
)

// effectsCommand lists the effect catalog in selection order.
func (c *CLI) effectsCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "effects",
		Short: "List the effect catalog",
		Long: `Effects prints the effects in the order they are considered during selection,
with their base probability and per-word step.

Without --config the built-in default catalog is shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := effect.Default()
			if configPath != "" {
				cfg, err := config.Load(configPath)
				if err != nil {
					return err
				}
				if reg, err = cfg.Registry(); err != nil {
					return err
				}
			}
			fmt.Fprintln(c.Out, effectsTable(reg))
			fmt.Fprintln(c.Out, StyleDim.Render("built-in: "+strings.Join(effect.BuiltinNames(), ", ")))
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "config file whose [[effects]] to list")
	return cmd
}
