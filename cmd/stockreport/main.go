package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/phuslu/log"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load()

	app := &App{}
	root := &cobra.Command{
		Use:           "stockreport",
		Short:         "Daily stock market analysis report",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.Init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.Close()
		},
	}
	root.PersistentFlags().StringVarP(&app.ConfigPath, "config", "c", defaultConfigPath(), "Path to config file")
	root.PersistentFlags().BoolVar(&app.Mock, "mock", false, "Use synthetic market data")
	root.PersistentFlags().BoolVar(&app.DryRun, "dry-run", false, "Log the email instead of sending it")

	root.AddCommand(newRunCmd(app), newScheduleCmd(app))

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("stockreport failed")
		os.Exit(1)
	}
}

func defaultConfigPath() string {
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		return v
	}
	return "configs/config.yaml"
}
