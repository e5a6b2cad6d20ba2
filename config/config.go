package config

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/CIDgravity/snakelet"
	"github.com/joho/godotenv"
)

// config structure
type Config struct {
	API    APIConfig    `mapstructure:"API"`
	Tasks  TasksConfig  `mapstructure:"TASKS"`
	Logs   LogsConfig   `mapstructure:"LOGS"`
	Github GithubConfig `mapstructure:"GITHUB"`
	Gitrec GitrecConfig `mapstructure:"GITREC"`
	Store  StoreConfig  `mapstructure:"STORE"`
}

type APIConfig struct {
	ListenPort     string   `mapstructure:"ListenPort"`
	AllowedOrigins []string `mapstructure:"AllowedOrigins"`

	// tab sessions idle for longer are forgotten, 0 keeps them forever
	SessionTTL time.Duration `mapstructure:"SessionTTL"`
}

type TasksConfig struct {
	MaxParallelTasksAllowed int `mapstructure:"MaxParallelTasksAllowed"`
}

type LogsConfig struct {
	Level            string `mapstructure:"Level"` // error | warn | info | debug - case insensitive
	OutputLogsAsJSON bool   `mapstructure:"OutputLogsAsJson"`
}

type GithubConfig struct {
	Token string `mapstructure:"Token"`

	// anonymous budget used when the real one can't be fetched at startup
	DefaultHourlyLimit int `mapstructure:"DefaultHourlyLimit"`
}

type GitrecConfig struct {
	BaseURL        string        `mapstructure:"BaseURL"`
	APIVersion     string        `mapstructure:"APIVersion"` // v1 | v2
	RequestTimeout time.Duration `mapstructure:"RequestTimeout"`
}

type StoreConfig struct {
	Driver string `mapstructure:"Driver"` // sqlite | memory
	Path   string `mapstructure:"Path"`
}

// Load reads config/config.toml next to the binary (or in the working directory)
// on top of the defaults. A missing file is not an error, defaults are used.
func Load() (*Config, error) {
	_ = godotenv.Load()

	dir, err := filepath.Abs(filepath.Dir(os.Args[0]))

	if err != nil {
		return nil, err
	}

	cfg := GetDefault()

	// check config file exists
	configFilePath := dir + "/config/config.toml"

	if _, err := os.Stat(configFilePath); errors.Is(err, os.ErrNotExist) {
		if _, err := os.Stat("config/config.toml"); errors.Is(err, os.ErrNotExist) {
			applyEnv(cfg)
			return cfg, nil
		}

		configFilePath = "config/config.toml"
	}

	// load default and config file content
	_, err = snakelet.InitAndLoad(cfg, configFilePath)

	if err != nil {
		return nil, err
	}

	applyEnv(cfg)
	return cfg, nil
}

// applyEnv lets secrets and deployment specific values live outside the toml file
func applyEnv(cfg *Config) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		cfg.Github.Token = token
	}

	if baseURL := os.Getenv("GITREC_BASE_URL"); baseURL != "" {
		cfg.Gitrec.BaseURL = baseURL
	}

	if path := os.Getenv("GITREC_STORE_PATH"); path != "" {
		cfg.Store.Path = path
	}
}

// GetDefault
func GetDefault() *Config {
	return &Config{
		API: APIConfig{
			ListenPort:     "5000",
			AllowedOrigins: []string{"https://github.com"},
			SessionTTL:     30 * time.Minute,
		},
		Tasks: TasksConfig{
			MaxParallelTasksAllowed: 6,
		},
		Logs: LogsConfig{
			Level:            "debug",
			OutputLogsAsJSON: false,
		},
		Github: GithubConfig{
			DefaultHourlyLimit: 60,
		},
		Gitrec: GitrecConfig{
			BaseURL:    "https://gitrec.gorse.io",
			APIVersion: "v2",
		},
		Store: StoreConfig{
			Driver: "sqlite",
			Path:   "data/preferences.db",
		},
	}
}
