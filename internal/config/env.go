package config

import (
	"fmt"
	"strings"
	"time"

	"VoiceAssistant/internal/middleware"

	"github.com/caarlos0/env/v11"
)

const (
	StorageDriverLocal = "local"
	StorageDriverS3    = "s3"

	LockDriverLocal = "local"
	LockDriverRedis = "redis"
)

type Env struct {
	AppPort string `env:"APP_PORT" envDefault:"3000"`
	AppEnv  string `env:"APP_ENV"  envDefault:"development"`

	UploadDir string `env:"UPLOAD_DIR" envDefault:"./uploads"`
	StaticDir string `env:"STATIC_DIR" envDefault:"./web/static"`
	IndexFile string `env:"INDEX_FILE" envDefault:"./web/templates/index.html"`

	ScopeMode         string        `env:"SCOPE_MODE"          envDefault:"session"`
	SessionSecret     string        `env:"SESSION_SECRET"`
	SessionCookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"voice_session"`
	SessionTTL        time.Duration `env:"SESSION_TTL"         envDefault:"720h"`
	SessionSecure     bool          `env:"SESSION_SECURE"      envDefault:"false"`

	MaxUploadSize   int64    `env:"MAX_UPLOAD_SIZE"  envDefault:"52428800"`
	AudioExtensions []string `env:"AUDIO_EXTENSIONS" envDefault:"mp3,wav,ogg,aac,m4a,flac,wma,aiff,alac,opus" envSeparator:","`
	ImageExtensions []string `env:"IMAGE_EXTENSIONS" envDefault:"png,jpg,jpeg,gif,webp"                        envSeparator:","`

	DefaultBotName string        `env:"DEFAULT_BOT_NAME" envDefault:"Voice Assistant"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"  envDefault:"10s"`
	RateLimit      float64       `env:"RATE_LIMIT"       envDefault:"50"`
	RateBurst      int           `env:"RATE_BURST"       envDefault:"100"`

	StorageDriver      string `env:"STORAGE_DRIVER" envDefault:"local"`
	AWSRegion          string `env:"AWS_REGION"`
	AWSBucketName      string `env:"AWS_BUCKET_NAME"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`

	LockDriver    string        `env:"LOCK_DRIVER"    envDefault:"local"`
	RedisAddress  string        `env:"REDIS_ADDRESS"  envDefault:"localhost:6379"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB"       envDefault:"0"`
	LockTTL       time.Duration `env:"LOCK_TTL"       envDefault:"30s"`
}

// LoadEnv parses the process environment and rejects unknown driver names.
func LoadEnv() (Env, error) {
	var cfg Env
	if err := env.Parse(&cfg); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, cfg.Validate()
}

func (e Env) Validate() error {
	switch e.ScopeMode {
	case middleware.ScopeModeSession, middleware.ScopeModeGlobal:
	default:
		return fmt.Errorf("SCOPE_MODE must be %q or %q, got %q", middleware.ScopeModeSession, middleware.ScopeModeGlobal, e.ScopeMode)
	}

	switch e.StorageDriver {
	case StorageDriverLocal:
	case StorageDriverS3:
		if e.AWSBucketName == "" {
			return fmt.Errorf("AWS_BUCKET_NAME is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", e.StorageDriver)
	}

	switch e.LockDriver {
	case LockDriverLocal, LockDriverRedis:
	default:
		return fmt.Errorf("unknown LOCK_DRIVER %q", e.LockDriver)
	}

	if e.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive")
	}
	if strings.TrimSpace(e.UploadDir) == "" {
		return fmt.Errorf("UPLOAD_DIR is required")
	}
	return nil
}

func (e Env) Session() middleware.SessionConfig {
	return middleware.SessionConfig{
		Mode:       e.ScopeMode,
		CookieName: e.SessionCookieName,
		Secret:     []byte(e.SessionSecret),
		TTL:        e.SessionTTL,
		Secure:     e.SessionSecure,
	}
}
