package main

import (
	"github.com/metalagman/coursellm/internal/config"
	"github.com/metalagman/coursellm/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// loadConfig reads settings for cmd. The config file is required only when
// --config was given explicitly.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	required := false
	if f := cmd.Flags().Lookup("config"); f != nil {
		required = f.Changed
	}
	cfg, err := config.Load(viper.GetViper(), viper.GetString("config"), required)
	if err != nil {
		return config.Config{}, err
	}
	logging.Init(debug, cfg.Log.Format)
	return cfg, nil
}
