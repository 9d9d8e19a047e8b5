package main

import (
	"fmt"
	"os"

	"github.com/metalagman/coursellm/internal/config"
	"github.com/metalagman/coursellm/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	debug   bool
	rootCmd = &cobra.Command{
		Use:          "coursellm",
		Short:        "coursellm answers, assesses, summarizes and quizzes over course materials",
		SilenceUsage: true,
	}
)

// Execute runs the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	if err := viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")); err != nil {
		return fmt.Errorf("bind config flag: %w", err)
	}
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logging.Init(debug, os.Getenv("LOG_FORMAT"))
		return config.LoadDotEnv(config.DotEnvFiles...)
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(assessCmd())
	rootCmd.AddCommand(summarizeCmd())
	rootCmd.AddCommand(quizCmd())
	return rootCmd.Execute()
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, err)
}
