package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const configFileEnvName = "DEALDROP_CONFIG_FILE"

const (
	FirecrawlBackend = "firecrawl"
	HtmlMetaBackend  = "htmlmeta"
)

type Mongodb struct {
	Host     string `mapstructure:"host" validate:"required"`
	Port     string `mapstructure:"port" validate:"required"`
	User     string `mapstructure:"user" validate:"required"`
	Password string `mapstructure:"password" validate:"required"`
	Database string `mapstructure:"database" validate:"required"`
}

type Firecrawl struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
}

type Extractor struct {
	Backend        string    `mapstructure:"backend" validate:"required,oneof=firecrawl htmlmeta"`
	TimeoutSeconds int       `mapstructure:"timeout_seconds"`
	Firecrawl      Firecrawl `mapstructure:"firecrawl"`
}

type Resend struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key"`
	From    string `mapstructure:"from"`
}

type Telegram struct {
	Token string `mapstructure:"token"`
}

type Alerts struct {
	Resend   Resend   `mapstructure:"resend"`
	Telegram Telegram `mapstructure:"telegram"`
}

type Refresher struct {
	IntervalSeconds int   `mapstructure:"interval_seconds"`
	Workers         uint8 `mapstructure:"workers"`
	RunOnce         bool  `mapstructure:"run_once"`
}

type Config struct {
	HTTPServerAddr string    `mapstructure:"http_server_addr" validate:"required"`
	AppURL         string    `mapstructure:"app_url"`
	Mongodb        Mongodb   `mapstructure:"mongodb"`
	Extractor      Extractor `mapstructure:"extractor"`
	Alerts         Alerts    `mapstructure:"alerts"`
	Refresher      Refresher `mapstructure:"refresher"`
}

func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

func Load() Config {
	viper.SetConfigFile(getConfigFilepath())

	if err := viper.ReadInConfig(); err != nil {
		die(err)
	}

	var cfg Config

	if err := viper.UnmarshalExact(&cfg); err != nil {
		die(err)
	}

	if err := cfg.Validate(); err != nil {
		die(err)
	}

	return cfg
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	arg := cmdLine.String("config", "/config.yaml", "config file")
	_ = cmdLine.Parse(os.Args[1:])

	if env, ok := os.LookupEnv(configFileEnvName); ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config file: %v\n", err)
	os.Exit(2)
}
