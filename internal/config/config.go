package config

import (
	"flag"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env            string             `yaml:"env" env-default:"local"`
	StoragePath    string             `yaml:"storage_path" env-required:"true"`
	HTTP           HTTPConfig         `yaml:"http"`
	EmailService   EmailSenderConfig  `yaml:"emailSender"`
	Verification   VerificationConfig `yaml:"verification"`
	Backend        BackendConfig      `yaml:"backend"`
	MigrationsPath string             `yaml:"migrations_path"`
}

type HTTPConfig struct {
	Port    int           `yaml:"port" env-default:"8082"`
	Timeout time.Duration `yaml:"timeout" env-default:"4s"`
}

type EmailSenderConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password" env:"SENDER_PASSWORD"`
}

type VerificationConfig struct {
	CodeTTL       time.Duration `yaml:"code_ttl" env-default:"10m"`
	ClearOnCancel bool          `yaml:"clear_on_cancel" env-default:"false"`
}

type BackendConfig struct {
	URL     string        `yaml:"url" env-required:"true"`
	Timeout time.Duration `yaml:"timeout" env-default:"5s"`
}

func MustLoad() *Config {
	configPath := fetchConfigPath()
	if configPath == "" {
		panic("config path is empty")
	}

	return MustLoadPath(configPath)
}

func MustLoadPath(configPath string) *Config {
	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}

	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		panic("cannot read config: " + err.Error())
	}

	return &cfg
}

// fetchConfigPath fetches config path from command line flag or environment variable.
// Priority: flag > env > default.
// Default value is empty string.
func fetchConfigPath() string {
	var res string

	flag.StringVar(&res, "config", "", "path to config file")
	flag.Parse()

	if res == "" {
		res = os.Getenv("CONFIG_PATH")
	}

	return res
}
