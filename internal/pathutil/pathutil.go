// Package pathutil manages application file paths and locations
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

const envTL = "TL_ENV"

// Paths holds the locations of tl's files.
type Paths struct {
	configDir      string
	configFileName string
	dbBaseName     string
	logFileName    string

	// Computed absolute paths
	configFilePath string
	dataDir        string
	logFilePath    string
}

// New resolves tl's paths in the XDG base directories, creating the
// directories as needed. TL_ENV switches every file to a per-environment
// name.
func New() (*Paths, error) {
	p := &Paths{
		configDir:      "tl",
		configFileName: "config.yml",
		dbBaseName:     "tl",
		logFileName:    "tl.log",
	}

	p.applyEnvironmentOverrides(os.Getenv(envTL))

	if err := p.computePaths(); err != nil {
		return nil, err
	}

	return p, nil
}

func (p *Paths) applyEnvironmentOverrides(env string) {
	env = strings.TrimSpace(env)
	if env == "" {
		return
	}

	p.configFileName = fmt.Sprintf("config_%s.yml", env)
	p.dbBaseName = fmt.Sprintf("tl_%s", env)
	p.logFileName = fmt.Sprintf("tl_%s.log", env)
}

func (p *Paths) computePaths() error {
	var err error

	relPath := filepath.Join(p.configDir, p.configFileName)

	p.configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		return err
	}

	p.dataDir, err = xdg.DataFile(p.configDir)
	if err != nil {
		return err
	}

	p.logFilePath = filepath.Join(p.dataDir, "log", p.logFileName)

	return nil
}

// ConfigFilePath returns the location of the config file.
func (p *Paths) ConfigFilePath() string {
	return p.configFilePath
}

// LogFilePath returns the location of the log file.
func (p *Paths) LogFilePath() string {
	return p.logFilePath
}

// DBFilePath returns the default database location for a storage driver.
// SQLite databases use the .sqlite extension, bolt databases .db.
func (p *Paths) DBFilePath(driver string) string {
	ext := ".db"
	if driver == "sqlite" {
		ext = ".sqlite"
	}

	return filepath.Join(p.dataDir, p.dbBaseName+ext)
}
