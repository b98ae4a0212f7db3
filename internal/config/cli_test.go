package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raminsharifi/time-logging/internal/apperr"
)

type CLITest struct {
	Name     string
	Opts     CLIOptions
	Initial  Config
	Expected Config
}

var cliTestCases = []CLITest{
	{
		Name: "empty options keep file settings",
		Initial: Config{
			Storage:  StorageConfig{Driver: DriverSQLite, Path: "/data/tl.sqlite"},
			Settings: SettingsConfig{DefaultCategory: "work"},
		},
		Expected: Config{
			Storage:  StorageConfig{Driver: DriverSQLite, Path: "/data/tl.sqlite"},
			Settings: SettingsConfig{DefaultCategory: "work"},
		},
	},
	{
		Name: "flags override file settings",
		Opts: CLIOptions{
			Driver:        " SQLite ",
			DBPath:        "/tmp/other.sqlite",
			Category:      "chores",
			StopCmd:       "echo stopped",
			DisableNotify: true,
		},
		Initial: Config{
			Storage:       StorageConfig{Driver: DriverBolt},
			Settings:      SettingsConfig{DefaultCategory: "work"},
			Notifications: NotificationConfig{Enabled: true},
		},
		Expected: Config{
			Storage:  StorageConfig{Driver: DriverSQLite, Path: "/tmp/other.sqlite"},
			Settings: SettingsConfig{DefaultCategory: "chores", StopCmd: "echo stopped"},
		},
	},
}

func TestApplyCLIOptions(t *testing.T) {
	for _, tc := range cliTestCases {
		t.Run(tc.Name, func(t *testing.T) {
			cfg := tc.Initial

			applyCLIOptions(&cfg, tc.Opts)

			assert.Equal(t, tc.Expected, cfg)
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DriverBolt, cfg.Storage.Driver)

	cfg = &Config{Storage: StorageConfig{Driver: "csv"}}
	err := cfg.Validate()
	require.ErrorIs(t, err, errUnknownDriver)
	assert.Equal(t, apperr.KindInvalid, apperr.KindOf(err))

	cfg = &Config{Log: LogConfig{Level: "loud"}}
	assert.ErrorIs(t, cfg.Validate(), errInvalidLogLevel)

	cfg = &Config{Settings: SettingsConfig{StopCmd: `say "unterminated`}}
	assert.ErrorIs(t, cfg.Validate(), errInvalidStopCmd)
}

func TestLogLevel(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "DEBUG"}}

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestStopCmd(t *testing.T) {
	cfg := &Config{Settings: SettingsConfig{StopCmd: `notify-send "timer stopped" -t 5`}}
	assert.Equal(t, []string{"notify-send", "timer stopped", "-t", "5"}, cfg.StopCmd())

	cfg.Settings.StopCmd = ""
	assert.Nil(t, cfg.StopCmd())
}

func TestTimeFormat(t *testing.T) {
	cfg := &Config{Display: DisplayConfig{TwentyFourHour: true}}
	assert.Equal(t, "15:04:05", cfg.TimeFormat())

	cfg.Display.TwentyFourHour = false
	assert.Equal(t, "03:04:05 PM", cfg.TimeFormat())
}
