package utils

import (
	"github.com/blagojts/viper"
)

// SetupConfigFile defines the settings for the configuration file support.
// An explicitly named file must exist; without one ./config.yaml is read
// when present.
func SetupConfigFile(v *viper.Viper, file string) error {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		// Ignore error if config file not found.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	return nil
}
