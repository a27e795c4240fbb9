package main

import (
	"fmt"
	"time"
)

type Config struct {
	Host             string        `env:"HOST,default=localhost"`
	Port             int           `env:"PORT,default=8080" validate:"gt=0,lte=65535"`
	LogLevel         string        `env:"LOG_LEVEL,default=info"`
	SendBufferSize   int           `env:"SEND_BUFFER_SIZE,default=256" validate:"gt=0"`
	InboxSize        int           `env:"INBOX_SIZE,default=32" validate:"gt=0"`
	AllowedOrigins   []string      `env:"ALLOWED_ORIGINS"`
	JokeBaseURL      string        `env:"JOKE_BASE_URL,default=https://icanhazdadjoke.com/" validate:"url"`
	JokeTimeout      time.Duration `env:"JOKE_TIMEOUT,default=5s" validate:"gt=0"`
	StatsInterval    time.Duration `env:"STATS_INTERVAL,default=30s" validate:"gt=0"`
	EnableModeration bool          `env:"ENABLE_MODERATION,default=true"`
	ModerationMask   string        `env:"MODERATION_MASK,default=*"`
}

// MaskRune converts the configured mask into a single rune.
func MaskRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"MODERATION_MASK must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
