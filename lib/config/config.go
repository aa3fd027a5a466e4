package config

import (
	"os"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/pescuma/locmeta/lib/model"
)

const (
	configName = ".locmeta"
	configType = "yaml"
	envPrefix  = "LOCMETA"

	DefaultCSV         = "loc.csv"
	DefaultHost        = "localhost"
	DefaultPort        = 2427
	DefaultWorkers     = 4
	DefaultDataTimeout = 30
)

type Config struct {
	CSV       string          `mapstructure:"csv"`
	URLPrefix string          `mapstructure:"url_prefix"`
	Server    ServerConfig    `mapstructure:"server"`
	Breakdown BreakdownConfig `mapstructure:"breakdown"`
	Export    ExportConfig    `mapstructure:"export"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port uint   `mapstructure:"port"`
	// Timeout in seconds for loading the data from an URL.
	Timeout int `mapstructure:"timeout"`
}

type BreakdownConfig struct {
	// Overall shows the breakdown of every displayed commit when nothing is selected.
	Overall bool `mapstructure:"overall"`
}

type ExportConfig struct {
	Exclude []string `mapstructure:"exclude"`
	Workers int      `mapstructure:"workers"`
}

var defaults = map[string]any{
	"csv":               DefaultCSV,
	"url_prefix":        model.DefaultCommitURLPrefix,
	"server.host":       DefaultHost,
	"server.port":       DefaultPort,
	"server.timeout":    DefaultDataTimeout,
	"breakdown.overall": false,
	"export.exclude":    []string{},
	"export.workers":    DefaultWorkers,
}

// Keys lists every setting, in the dotted form used by the workspace config and the yaml file.
func Keys() []string {
	result := make([]string, 0, len(defaults))
	for k := range defaults {
		result = append(result, k)
	}
	sort.Strings(result)
	return result
}

func IsKey(key string) bool {
	_, ok := defaults[key]
	return ok
}

// Load reads, from lowest to highest precedence: defaults, the config file, the workspace settings and
// LOCMETA_ environment variables. Variables in a .env file in the current dir are loaded first. If file is
// empty, .locmeta.yaml is searched in the current and home dirs; a missing file is not an error.
func Load(file string, workspace map[string]string) (*Config, error) {
	err := loadDotEnv(".env")
	if err != nil {
		return nil, err
	}

	v := viper.New()

	for k, d := range defaults {
		v.SetDefault(k, d)
	}

	v.SetConfigType(configType)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
	}

	err = v.ReadInConfig()
	if err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "error reading config")
		}
	}

	if len(workspace) > 0 {
		err = v.MergeConfigMap(nest(workspace))
		if err != nil {
			return nil, errors.Wrap(err, "error merging workspace config")
		}
	}

	var result Config
	err = v.Unmarshal(&result)
	if err != nil {
		return nil, errors.Wrap(err, "error parsing config")
	}

	err = result.Validate()
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == 0 || c.Server.Port > 65535 {
		return errors.Errorf("invalid server.port: %v", c.Server.Port)
	}
	if c.Export.Workers < 1 {
		return errors.Errorf("invalid export.workers: %v", c.Export.Workers)
	}
	if c.Server.Timeout < 1 {
		return errors.Errorf("invalid server.timeout: %v", c.Server.Timeout)
	}
	return nil
}

func loadDotEnv(file string) error {
	if _, err := os.Stat(file); err != nil {
		return nil
	}

	err := godotenv.Load(file)
	if err != nil {
		return errors.Wrapf(err, "error loading %v", file)
	}

	return nil
}

// nest turns {"server.port": "1"} into {"server": {"port": "1"}}.
func nest(flat map[string]string) map[string]any {
	result := map[string]any{}

	for k, v := range flat {
		parts := strings.Split(k, ".")

		m := result
		for _, p := range parts[:len(parts)-1] {
			child, ok := m[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				m[p] = child
			}
			m = child
		}

		m[parts[len(parts)-1]] = v
	}

	return result
}
