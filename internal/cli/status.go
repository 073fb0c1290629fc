package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// statusReport is the machine-readable form of `horizon status`
type statusReport struct {
	Server    string `json:"server" yaml:"server"`
	Identity  string `json:"identity" yaml:"identity"`
	Session   string `json:"session" yaml:"session"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty"`
	ExpiresAt string `json:"expiresAt,omitempty" yaml:"expiresAt,omitempty"`
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show identity provider and session status",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(commandContext(cmd), 5*time.Second)
			defer cancel()

			report := statusReport{
				Server:   viper.GetString("server_url"),
				Identity: "connected",
				Session:  "signed out",
			}
			if serverURL != "" {
				report.Server = serverURL
			}

			if err := identity.Ping(ctx); err != nil {
				cliLogger.WithError(err).Debug("Identity provider ping failed")
				report.Identity = "unreachable"
			}

			if token, _ := sessionToken(); token != "" {
				report.Session = "signed in"
				report.Email = viper.GetString("auth.email")
				report.ExpiresAt = viper.GetString("auth.expires_at")
				if exp, err := time.Parse(time.RFC3339, report.ExpiresAt); err == nil && time.Now().After(exp) {
					report.Session = "expired"
				}
			}

			out := cmd.OutOrStdout()
			if getOutputFormat() != "table" {
				return printOutput(out, report)
			}

			fmt.Fprintln(out, titleText("Horizon"))
			fmt.Fprintln(out, strings.Repeat("=", 40))
			fmt.Fprintf(out, "  Server:    %s\n", report.Server)
			fmt.Fprintf(out, "  Identity:  %s\n", formatStatus(report.Identity))
			fmt.Fprintf(out, "  Session:   %s\n", formatStatus(report.Session))
			if report.Email != "" {
				fmt.Fprintf(out, "  Email:     %s\n", report.Email)
			}
			return nil
		},
	}
}
