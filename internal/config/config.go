package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env"
)

type config struct {
	Production       bool          `env:"PRODUCTION" envDefault:"false"`
	Port             string        `env:"PORT" envDefault:"80"`
	PostgresUrl      string        `env:"POSTGRES_URL,required"`
	RedisUrl         string        `env:"REDIS_URL" envDefault:"redis:6379"`
	JwtTTL           time.Duration `env:"TOKEN_TTL" envDefault:"20m"`
	Secret           string        `env:"SECRET,required"`
	ViewerCacheTTL   time.Duration `env:"VIEWER_CACHE_TTL" envDefault:"60s"`
	FeedWindow       time.Duration `env:"FEED_WINDOW" envDefault:"1104h"`
	MaxCommentLength int           `env:"MAX_COMMENT_LENGTH" envDefault:"2000"`
	OpenSignup       bool          `env:"OPEN_SIGNUP" envDefault:"false"`
}

var conf config

func init() {
	if err := env.Parse(&conf); err != nil {
		panic(fmt.Sprintf("failed to load config: %v", err))
	}
}

func Production() bool {
	return conf.Production
}

func Port() string {
	return conf.Port
}

func PostgresURL() string {
	return conf.PostgresUrl
}

func RedisURL() string {
	return conf.RedisUrl
}

func JwtTTL() time.Duration {
	return conf.JwtTTL
}

func Secret() string {
	return conf.Secret
}

// ViewerCacheTTL is how long a resolved viewer context stays in redis.
func ViewerCacheTTL() time.Duration {
	return conf.ViewerCacheTTL
}

// FeedWindow is the default span of the feed when the client sends no "to".
func FeedWindow() time.Duration {
	return conf.FeedWindow
}

func MaxCommentLength() int {
	return conf.MaxCommentLength
}

func OpenSignup() bool {
	return conf.OpenSignup
}
