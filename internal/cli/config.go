package cli

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pratik-mahalle/horizon/internal/authform"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigListCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactive first-time setup",
		RunE: func(cmd *cobra.Command, args []string) error {
			reader := bufio.NewReader(cmd.InOrStdin())
			out := cmd.OutOrStdout()

			ask := func(prompt, def string) string {
				fmt.Fprintf(out, "%s [%s]: ", prompt, def)
				v, _ := reader.ReadString('\n')
				v = strings.TrimSpace(v)
				if v == "" {
					return def
				}
				return v
			}

			url := ask("Identity provider URL", defaultServerURL)
			apiKey := ask("Project API key", "")
			format := ask("Default output format (table/json/yaml)", "table")
			policy := ask("On provider errors show (swallow/generic)", string(authform.ErrorPolicySwallow))
			if _, err := authform.ParseErrorPolicy(policy); err != nil {
				return err
			}

			viper.Set("server_url", url)
			viper.Set("api_key", apiKey)
			viper.Set("output", format)
			viper.Set("error_policy", policy)

			if err := writeConfig(); err != nil {
				return err
			}

			path, _ := configPath()
			fmt.Fprintf(out, "Configuration saved to %s\n", path)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if args[0] == "error_policy" {
				if _, err := authform.ParseErrorPolicy(args[1]); err != nil {
					return err
				}
			}
			viper.Set(args[0], args[1])
			if err := writeConfig(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s = %s\n", args[0], args[1])
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if isSecret(args[0]) {
				fmt.Fprintf(out, "%s: (hidden)\n", args[0])
				return nil
			}
			val := viper.Get(args[0])
			if val == nil {
				fmt.Fprintf(out, "%s: (not set)\n", args[0])
			} else {
				fmt.Fprintf(out, "%s: %v\n", args[0], val)
			}
			return nil
		},
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all configuration values",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := viper.AllSettings()
			if token, _ := sessionToken(); token != "" {
				settings["auth"] = "(session stored)"
			} else {
				delete(settings, "auth")
			}
			if key, ok := settings["api_key"].(string); ok && key != "" {
				settings["api_key"] = "(hidden)"
			}

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, settings)
			}

			keys := make([]string, 0, len(settings))
			for k := range settings {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(out, "%s: %v\n", k, settings[k])
			}
			return nil
		},
	}
}

func isSecret(key string) bool {
	return key == "api_key" || key == "auth.token"
}

func writeConfig() error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
