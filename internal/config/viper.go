package config

import (
	"errors"
	"os"

	"github.com/spf13/viper"
)

// Keys of the config file.
const (
	keyStorageDriver        = "storage.driver"
	keyStoragePath          = "storage.path"
	keyDefaultCategory      = "settings.default_category"
	keyStopCmd              = "settings.stop_cmd"
	keyNotificationsEnabled = "notifications.enabled"
	keyTwentyFourHour       = "display.24hr_clock"
	keyDarkTheme            = "display.dark_theme"
	keyLogLevel             = "log.level"
)

// WithViperConfig returns an Option that loads configuration from the YAML
// file at configPath. A missing file is created with the default settings.
func WithViperConfig(configPath string) Option {
	return func(c *Config) error {
		v := viper.New()

		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")

		setDefaults(v)

		c.PathToConfig = configPath

		err := v.ReadInConfig()
		if err == nil {
			return v.Unmarshal(c)
		}

		if !errors.Is(err, os.ErrNotExist) {
			return errReadConfig.Wrap(err)
		}

		if err := v.WriteConfig(); err != nil {
			return errWriteConfig.Wrap(err)
		}

		return v.Unmarshal(c)
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(keyStorageDriver, DriverBolt)
	v.SetDefault(keyStoragePath, "")
	v.SetDefault(keyDefaultCategory, "")
	v.SetDefault(keyStopCmd, "")
	v.SetDefault(keyNotificationsEnabled, false)
	v.SetDefault(keyTwentyFourHour, true)
	v.SetDefault(keyDarkTheme, true)
	v.SetDefault(keyLogLevel, "info")
}
