package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "clscorgi.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/clscorgi"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger

	// workDir is where the project config search starts (empty = cwd)
	workDir string
	// homeDir overrides the user home directory (empty = os.UserHomeDir)
	homeDir string
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// WithDirs returns a copy of the loader that searches for the project config
// from workDir and reads the user config below homeDir.
func (l *Loader) WithDirs(workDir, homeDir string) *Loader {
	return &Loader{logger: l.logger, workDir: workDir, homeDir: homeDir}
}

// Load builds the effective configuration from the defaults, the user
// config (~/.config/clscorgi/config.yaml) and the nearest clscorgi.yaml in
// the working directory or one of its parents, later layers winning.
// Unreadable layers are logged and skipped.
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	for _, layer := range []struct{ kind, path string }{
		{"user", l.userConfigPath()},
		{"project", l.findProjectConfig()},
	} {
		if layer.path == "" {
			continue
		}
		cfg, err := loadLayer(layer.path)
		switch {
		case err == nil:
			l.logger.Debug("Loaded config layer", slog.String("layer", layer.kind), slog.String("path", layer.path))
			config.Merge(cfg)
		case errors.Is(err, fs.ErrNotExist):
		default:
			l.logger.Warn("Skipping config layer",
				slog.String("layer", layer.kind),
				slog.String("path", layer.path),
				slog.String("error", err.Error()))
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadFile loads an explicit config file on top of the defaults,
// skipping the user and project layers.
func (l *Loader) LoadFile(path string) (*Config, error) {
	config := DefaultConfig()
	fileConfig, err := loadLayer(path)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Loaded config", slog.String("path", path))
	if len(fileConfig.Vocabs) > 0 {
		// An explicit file owns the vocabulary list
		config.Vocabs = nil
	}
	config.Merge(fileConfig)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// EnsureUserConfig writes the default config to the user config path
// unless a file is already there.
func (l *Loader) EnsureUserConfig() error {
	path := l.userConfigPath()
	if path == "" {
		return errors.New("cannot determine home directory")
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := DefaultConfig().SaveToFile(path); err != nil {
		return err
	}
	l.logger.Info("Created default user config", slog.String("path", path))
	return nil
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home := l.homeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig returns the nearest clscorgi.yaml walking up from the
// working directory, or "".
func (l *Loader) findProjectConfig() string {
	dir := l.workDir
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return ""
		}
	}
	for {
		path := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(path); err == nil {
			return path
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
