package main

import (
	"github.com/tippingcanoe/validator/pkg/httpserver"
)

// Config is the service configuration loaded from the environment.
type Config struct {
	HTTP httpserver.Config

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// RulesFile replaces the built-in rule sets when set.
	RulesFile string `env:"RULES_FILE"`
	// MessagesFile adds message templates on top of the built-in catalog.
	MessagesFile string `env:"MESSAGES_FILE"`

	Locales     []string `env:"LOCALES" envDefault:"en" envSeparator:","`
	MaxMemory   int64    `env:"MAX_MEMORY" envDefault:"10485760"`
	MaxBodySize int64    `env:"MAX_BODY_SIZE" envDefault:"1048576"`
}
