package lvsc

import (
	"fmt"

	"github.com/named-data/lvsc/std/log"
	"github.com/named-data/lvsc/std/utils/toolutils"
)

// Config is the optional configuration file of the lvsc tool.
type Config struct {
	// LogLevel is the minimum level of log records.
	LogLevel string `yaml:"log_level"`
	// CacheDir enables the compile cache when set.
	CacheDir string `yaml:"cache_dir"`
	// Format is the default output format of dump.
	Format string `yaml:"format"`
}

func DefaultConfig() Config {
	return Config{
		LogLevel: "INFO",
		Format:   formatYaml,
	}
}

// LoadConfig reads a configuration file over the defaults.
func LoadConfig(file string) (Config, error) {
	cfg := DefaultConfig()
	if file == "" {
		return cfg, nil
	}
	if err := toolutils.ReadYaml(&cfg, file); err != nil {
		return cfg, err
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	switch c.Format {
	case formatYaml, formatJson, formatInfo:
	default:
		return fmt.Errorf("invalid dump format: %q", c.Format)
	}
	return nil
}

// apply sets the log level of the default logger.
func (c Config) apply() error {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return err
	}
	log.Default().SetLevel(level)
	return nil
}
