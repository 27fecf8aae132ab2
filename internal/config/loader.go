package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"fredon/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/fredon"
	configFileName = "config.yaml"

	// MaxConfigFileSize caps the configuration file at 1 MiB.
	MaxConfigFileSize = 1 << 20
)

// FileError reports a missing or unreadable configuration or icon source.
// Callers recover by falling back to default content.
type FileError struct {
	Path string
	Err  error
}

func (fe *FileError) Error() string {
	return fmt.Sprintf("file error for %s: %v", fe.Path, fe.Err)
}

func (fe *FileError) Unwrap() error { return fe.Err }

// IsNotExist reports whether the underlying cause is a missing file.
func (fe *FileError) IsNotExist() bool {
	return errors.Is(fe.Err, os.ErrNotExist)
}

// DefaultConfigPath returns the user-scoped configuration file path.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(homeDir, userConfigDir, configFileName), nil
}

// Load reads, decodes and validates the configuration file at path.
//
// The returned Config is normalized and usable whenever err is nil, even if
// findings were accumulated; callers decide based on findings.HasFatal
// whether to apply it. A *FileError is returned when the file is missing,
// unreadable, oversized or not valid UTF-8; a decode failure of otherwise
// readable bytes is reported as a fatal validation finding so the caller can
// surface it alongside schema findings.
func Load(path string) (*Config, ValidationErrors, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, nil, &FileError{Path: path, Err: err}
	}
	if info.Size() > MaxConfigFileSize {
		return nil, nil, &FileError{Path: path, Err: fmt.Errorf("file size %d exceeds %d byte limit", info.Size(), MaxConfigFileSize)}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, &FileError{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, nil, &FileError{Path: path, Err: errors.New("file is not valid UTF-8")}
	}

	var raw Config
	if err := yaml.Unmarshal(data, &raw); err != nil {
		var errs ValidationErrors
		errs.AddFatal("", fmt.Sprintf("cannot parse configuration: %v", err))
		return nil, errs, nil
	}

	cfg, errs := Validate(raw)
	if errs.HasErrors() {
		logging.Warn("ConfigLoader", "Loaded %s with %d validation findings", path, len(errs))
	} else {
		logging.Info("ConfigLoader", "Loaded configuration from %s", path)
	}
	return &cfg, errs, nil
}
