package config

import "time"

type Config struct {
	Env            string           `yaml:"env" env-default:"local"`
	HttpServer     HttpServerConfig `yaml:"httpServer"`
	DBConfig       DBConfig         `yaml:"db" env-required:"true"`
	BotConfig      BotConfig        `yaml:"bot"`
	Report         ReportConfig     `yaml:"report"`
	ConfigFilePath string           `yaml:"configFilePath" env:"CONFIG_FILEPATH" env-default:""`
	ConfigFileName string           `yaml:"configFileName" env:"CONFIG_FILENAME" env-default:""`
}

type HttpServerConfig struct {
	Address      string        `yaml:"address" env-default:"0.0.0.0"`
	Port         string        `yaml:"port" env-default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" env-default:"10s"`
	WriteTimeout time.Duration `yaml:"writeTimeout" env-default:"30s"`
	QueryTimeout time.Duration `yaml:"queryTimeout" env-default:"15s"`
}

type DBConfig struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	Name     string `yaml:"name" env:"DB_NAME" env-default:"postgres"`
	User     string `yaml:"user" env:"DB_USER" env-default:"user"`
	Password string `yaml:"password" env:"DB_PASSWORD" env-default:"password"`
	Schema   string `yaml:"schema" env:"DB_SCHEMA" env-default:"msp_reports"`
}

// BotConfig configures the optional Telegram digest bot. The bot only
// answers report commands from usernames in Admins.
type BotConfig struct {
	Enabled       bool     `yaml:"enabled" env-default:"false"`
	Admins        []string `yaml:"admins" env-default:"admin"`
	TgbotApiToken string   `yaml:"tgbot_apitoken" env:"TGBOT_APITOKEN" env-default:""`
}

// ReportConfig carries the report defaults applied when a request does
// not override them.
type ReportConfig struct {
	MinTickets   int    `yaml:"minTickets" env-default:"5"`
	ScorePolicy  string `yaml:"scorePolicy" env-default:"blend"`
	TierPolicy   string `yaml:"tierPolicy" env-default:"score"`
	DigestSize   int    `yaml:"digestSize" env-default:"10"`
	DigestPeriod string `yaml:"digestPeriod" env-default:"monthly"`
}
