// Package client holds the configuration of the mantaray manifest tool.
package client

import (
	"github.com/Solar-Punk-Ltd/mantaray-go/application"
	"github.com/Solar-Punk-Ltd/mantaray-go/utils"
)

// DefaultIndexDocument is the website index document set on new
// manifests when none is configured.
const DefaultIndexDocument = "index.html"

// Config contains the manifest tool's configuration: the leveldb
// directory holding blobs and manifest nodes, whether new manifests
// get a random obfuscation key, and the index document recorded on
// the root of website manifests.
//
// Database is resolved relative to the directory of the config file.
type Config struct {
	*application.CommonConfig

	Database      string `toml:"database"`
	Obfuscate     bool   `toml:"obfuscate"`
	IndexDocument string `toml:"index_document,omitempty"`
}

var _ application.AppConfig = (*Config)(nil)

// NewConfig initializes a new manifest tool configuration at the
// given file path, with the given config encoding and database
// directory.
func NewConfig(file, encoding, database string, obfuscate bool) *Config {
	var conf = Config{
		CommonConfig: application.NewCommonConfig(file, encoding, &application.LoggerConfig{
			Environment: "production",
		}),
		Database:      database,
		Obfuscate:     obfuscate,
		IndexDocument: DefaultIndexDocument,
	}

	return &conf
}

// Load initializes the tool's configuration from the given file
// using the given encoding.
func (conf *Config) Load(file, encoding string) error {
	conf.CommonConfig = application.NewCommonConfig(file, encoding, nil)
	if err := conf.GetLoader().Decode(conf); err != nil {
		return err
	}
	return nil
}

// Save writes the tool's configuration.
func (conf *Config) Save() error {
	return conf.GetLoader().Encode(conf)
}

// DatabasePath returns the database directory resolved against the
// location of the config file.
func (conf *Config) DatabasePath() string {
	return utils.ResolvePath(conf.Database, conf.Path)
}
