package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/km-arc/go-laravel-validation/framework/validation"
	"github.com/km-arc/go-laravel-validation/framework/validation/unit"
)

func newCheckCmd(v *viper.Viper) *cobra.Command {
	var (
		dataPath string
		scopes   []string
		binds    []string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "check <validator>",
		Short: "Validate a document against a named validator",
		Long: `Validate a YAML or JSON document against a named validator.

The document is read from --data, or from stdin when --data is "-" or
omitted. Exits with status 1 when validation fails.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := setup(v, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer func() { _ = env.logger.Sync() }()

			data, err := readData(cmd.InOrStdin(), dataPath)
			if err != nil {
				return err
			}
			bindings, err := parseBindings(binds)
			if err != nil {
				return err
			}

			u, err := env.registry.Make(args[0], env.engine,
				unit.WithAttributes(data),
				unit.WithScopes(scopes...),
				unit.WithDefaultScope(v.GetString("default-scope")),
				unit.WithLogger(env.logger.Named("validation")),
			)
			if err != nil {
				return err
			}
			for field, replacements := range bindings {
				u.Bind(field, replacements)
			}

			passed := u.PassesContext(cmd.Context())
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(u.Errors()); err != nil {
					return err
				}
			} else {
				report(out, u.Name(), u.Errors())
			}
			if !passed {
				return errFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dataPath, "data", "d", "-", "document to validate (- for stdin)")
	cmd.Flags().StringSliceVarP(&scopes, "scope", "s", nil, "scope to activate, repeatable")
	cmd.Flags().StringArrayVarP(&binds, "bind", "b", nil, "token binding key=value or field:key=value, repeatable")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the message bag as JSON")
	return cmd
}

// report prints a pass line, or every failed field with its messages.
func report(w io.Writer, name string, errs *validation.Errors) {
	if errs.IsEmpty() {
		fmt.Fprintf(w, "%s %s passed\n", color.GreenString("✓"), name)
		return
	}
	fmt.Fprintf(w, "%s %s failed\n", color.RedString("✗"), name)
	field := color.New(color.FgYellow, color.Bold)
	for _, key := range errs.Keys() {
		fmt.Fprintf(w, "  %s\n", field.Sprint(key))
		for _, msg := range errs.Get(key) {
			fmt.Fprintf(w, "    - %s\n", msg)
		}
	}
}
