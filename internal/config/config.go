package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Telegram struct {
		Token string `yaml:"token"`
	} `yaml:"telegram"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Quiz struct {
		// Length is the number of questions drawn per run.
		Length int `yaml:"length"`
		// QuestionTimeout is the answer window per question. The intro
		// message formats this same value, so the advertised and enforced
		// windows cannot drift.
		QuestionTimeout string `yaml:"question_timeout"`
		BankPath        string `yaml:"bank_path"`
	} `yaml:"quiz"`
	Reading struct {
		MocksPath string `yaml:"mocks_path"`
	} `yaml:"reading"`
}

// Load reads YAML config from path. Telegram token and Postgres URL fall
// back to BOT_TOKEN and DATABASE_URL env vars when absent from the file.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if cfg.Telegram.Token == "" {
		cfg.Telegram.Token = os.Getenv("BOT_TOKEN")
	}
	if cfg.Postgres.URL == "" {
		cfg.Postgres.URL = os.Getenv("DATABASE_URL")
	}
	return cfg, nil
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}

// QuizLength returns the configured quiz length or the default of 15.
func (c Config) QuizLength() int {
	if c.Quiz.Length > 0 {
		return c.Quiz.Length
	}
	return 15
}

// QuestionWindow returns the per-question answer window, 15s by default.
func (c Config) QuestionWindow() time.Duration {
	return Duration(c.Quiz.QuestionTimeout, 15*time.Second)
}
