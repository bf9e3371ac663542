package main

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultRulesPath = "config/validators.yaml"

// errFailed is returned by check when the data does not pass; the report has
// already been printed.
var errFailed = errors.New("validation failed")

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "validate",
		Short: "Run validators against data files",
		Long: `validate evaluates YAML or JSON documents against the validators
registered by the application and the definitions in a rules file.

Settings come from flags, VALIDATE_* environment variables and an optional
.validate.yaml in the working directory, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return readConfig(v)
		},
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default ./.validate.yaml)")
	flags.String("rules", defaultRulesPath, "YAML file with validator definitions")
	flags.String("fixtures", "", "YAML file with rows for unique/exists rules")
	flags.String("lang", "lang", "directory with translation files")
	flags.String("locale", "en", "locale for messages")
	flags.String("default-scope", "default", "base scope every other scope overrides")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	_ = v.BindPFlags(flags)

	v.SetEnvPrefix("VALIDATE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root.AddCommand(newCheckCmd(v))
	root.AddCommand(newListCmd(v))
	return root
}

func readConfig(v *viper.Viper) error {
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}
	v.SetConfigName(".validate")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
	}
	return nil
}
