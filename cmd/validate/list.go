package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newListCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered validators and their scopes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			bold := color.New(color.Bold)
			for _, name := range env.registry.Names() {
				def, _ := env.registry.Definition(name)
				scopes := def.ScopeNames()
				if len(scopes) == 0 {
					fmt.Fprintf(out, "%s\n", bold.Sprint(name))
					continue
				}
				fmt.Fprintf(out, "%s  scopes: %s\n", bold.Sprint(name), strings.Join(scopes, ", "))
			}
			return nil
		},
	}
}
