package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pratik-mahalle/horizon/internal/authform"
	"github.com/pratik-mahalle/horizon/internal/domain/auth"
	"github.com/pratik-mahalle/horizon/internal/pkg/logger"
	"github.com/pratik-mahalle/horizon/internal/services"
	"github.com/pratik-mahalle/horizon/pkg/client"
)

const defaultServerURL = "http://localhost:9000"

// identityClient is what the CLI needs from the identity provider
type identityClient interface {
	auth.Identity
	CurrentUser(ctx context.Context, token string) (*auth.User, error)
	SignOut(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

var (
	cfgFile      string
	outputFormat string
	noColor      bool
	serverURL    string
	verbose      bool
	identity     identityClient
	cliLogger    = logger.Discard()
)

// newIdentity builds the provider client. Tests replace it.
var newIdentity = func(baseURL, apiKey string, log *logger.Logger) identityClient {
	c := client.NewClient(client.Config{
		BaseURL: baseURL,
		APIKey:  apiKey,
	})
	return services.NewIdentityService(c, log)
}

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "horizon",
		Short: "Horizon CLI - sign in to your Horizon banking account",
		Long: `Horizon CLI drives the same sign-in and sign-up forms as the web app.
Sessions are stored in the CLI config so later commands can use them.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if noColor {
				color.NoColor = true
			}
			level := "error"
			if verbose {
				level = "debug"
			}
			cliLogger = logger.New(logger.Config{Level: level, Format: "console", OutputPath: "stderr"})
			// Config commands work offline
			if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
				return nil
			}
			return initClient()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.horizon/config.yaml)")
	root.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().StringVar(&serverURL, "server", "", "identity provider URL (overrides config)")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log diagnostics to stderr")

	_ = viper.BindPFlag("output", root.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("server_url", root.PersistentFlags().Lookup("server"))

	root.AddCommand(newAuthCmd())
	root.AddCommand(newConfigCmd())
	root.AddCommand(newStatusCmd())

	return root
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return
		}
		_ = os.MkdirAll(dir, 0700)
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("HORIZON")
	viper.AutomaticEnv()

	viper.SetDefault("server_url", defaultServerURL)
	viper.SetDefault("output", "table")
	viper.SetDefault("error_policy", string(authform.ErrorPolicySwallow))

	_ = viper.ReadInConfig()
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".horizon"), nil
}

// configPath is where writeConfig persists settings
func configPath() (string, error) {
	if cfgFile != "" {
		return cfgFile, nil
	}
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func initClient() error {
	url := viper.GetString("server_url")
	if serverURL != "" {
		url = serverURL
	}
	if url == "" {
		url = defaultServerURL
	}

	identity = newIdentity(url, viper.GetString("api_key"), cliLogger)
	return nil
}

// sessionToken returns the stored session token or an error telling the
// user to sign in
func sessionToken() (string, error) {
	token := viper.GetString("auth.token")
	if token == "" {
		return "", fmt.Errorf("not signed in. Run 'horizon auth sign-in' first")
	}
	return token, nil
}

func errorPolicy() (authform.ErrorPolicy, error) {
	return authform.ParseErrorPolicy(viper.GetString("error_policy"))
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}
