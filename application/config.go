package application

import (
	"errors"
	"fmt"
)

var (
	// ErrLoggerEnvironment indicates a logger environment other than
	// "development" or "production".
	ErrLoggerEnvironment = errors.New("[application] Environment must be either development or production")
)

// AppConfig provides an abstraction of the
// underlying encoding format for the configs.
type AppConfig interface {
	Load(file, encoding string) error
	Save() error
	GetPath() string
}

// CommonConfig is the generic type used to specify the configuration of
// any mantaray application-level executable. It contains some common
// configuration values including the file path, logger configuration,
// and config loader.
type CommonConfig struct {
	Path     string        `toml:"-"`
	Logger   *LoggerConfig `toml:"logger"`
	Encoding string        `toml:"-"`
	loader   ConfigLoader
}

// NewCommonConfig initializes an application's config file path,
// its loader for the given encoding, and the logger configuration.
// Note: This constructor must be called in each Load() method
// implementation of an AppConfig.
func NewCommonConfig(file, encoding string, logger *LoggerConfig) *CommonConfig {
	return &CommonConfig{
		Path:     file,
		Logger:   logger,
		Encoding: encoding,
		loader:   newConfigLoader(encoding),
	}
}

// GetLoader returns the config's loader.
func (conf *CommonConfig) GetLoader() ConfigLoader {
	return conf.loader
}

// GetPath returns the config's file path.
func (conf *CommonConfig) GetPath() string {
	return conf.Path
}

// NewLogger builds the Logger described by the config's [logger]
// section. A config without one logs nothing.
func (conf *CommonConfig) NewLogger() (*Logger, error) {
	if conf.Logger == nil {
		return NewNopLogger(), nil
	}
	return NewLogger(conf.Logger)
}

// LoadConfig loads an application configuration from the given file
// using the given encoding into conf.
func LoadConfig(file, encoding string, conf AppConfig) error {
	if err := conf.Load(file, encoding); err != nil {
		return fmt.Errorf("Cannot load config %s: %v", file, err)
	}
	return nil
}

// SaveConfig stores the given configuration conf in the given
// file. It refuses to overwrite an existing file.
func SaveConfig(conf AppConfig) error {
	return conf.Save()
}
