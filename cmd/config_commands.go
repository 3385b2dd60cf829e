package main

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/GolovachevS/listings-service/internal/config"
	"github.com/spf13/cobra"
)

// errInvalidConfig reports a failed check whose details were already printed.
var errInvalidConfig = errors.New("invalid configuration")

func newConfigCommand(envDir *string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Load the stage overlay and validate the environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			cfg, err := config.Load(*envDir, config.FromOS())
			var verr *config.ValidationError
			if errors.As(err, &verr) {
				fmt.Fprintln(out, violationTable(verr.Violations))
				fmt.Fprintf(out, "%d configuration problem(s) found\n", len(verr.Violations))
				return errInvalidConfig
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(out, settingsTable(cfg))
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	})

	return configCmd
}

func violationTable(violations []config.Violation) string {
	rows := make([][]string, 0, len(violations))
	for _, v := range violations {
		rows = append(rows, []string{v.Field, string(v.Kind), v.Message})
	}
	return renderTable([]string{"Field", "Rule", "Problem"}, rows)
}

func settingsTable(cfg config.Config) string {
	rows := [][]string{
		{"NODE_ENV", cfg.NodeEnv},
		{"APP_STAGE", string(cfg.AppStage)},
		{"PORT", strconv.Itoa(cfg.Port)},
		{"DATABASE_URL", maskURL(cfg.DatabaseURL)},
		{"JWT_SECRET", mask(cfg.JWTSecret)},
		{"JWT_EXPIRES_IN", cfg.JWTExpiresIn},
		{"BCRYPT_ROUNDS", strconv.Itoa(cfg.BcryptRounds)},
		{"LOG_LEVEL", cfg.LogLevel},
		{"RATE_LIMIT_RPS", strconv.FormatFloat(cfg.RateLimitRPS, 'f', -1, 64)},
		{"RATE_LIMIT_BURST", strconv.Itoa(cfg.RateLimitBurst)},
	}
	return renderTable([]string{"Key", "Value"}, rows)
}

func mask(secret string) string {
	if secret == "" {
		return "(unset)"
	}
	return strings.Repeat("*", 8)
}

// maskURL hides the password of user:password@host URLs.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "(unparseable)"
	}
	return u.Redacted()
}
