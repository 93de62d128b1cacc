// Command domo is a privacy-aware personal assistant. Run with no
// arguments for an interactive chat; subcommands cover one-shot
// questions, tool inspection, and privacy settings.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"majordomo/internal/config"
	"majordomo/internal/logging"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
	log *zap.Logger
)

func main() {
	root := &cobra.Command{
		Use:   "domo",
		Short: "A privacy-aware personal assistant",
		Long: "domo routes your requests to the right tool, asks for\n" +
			"clarification when they are ambiguous, and checks your privacy\n" +
			"settings before touching sensitive data.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			log, err = logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				File:   cfg.Logging.File,
			})
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if log != nil {
				_ = log.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "domo.yaml", "config file path")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override configured log level")

	root.AddCommand(newAskCmd(), newToolsCmd(), newPrivacyCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
