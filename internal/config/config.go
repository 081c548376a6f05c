// Package config loads process configuration from the environment and holds the
// compile-time limits of the complaint domain.
package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type DatabaseOptions struct {
	Driver   string `env:"STORE_DRIVER" envDefault:"postgres"` // postgres or memory
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"user"`
	Password string `env:"DB_PASSWORD" envDefault:"password"`
	Name     string `env:"DB_NAME" envDefault:"complainthubdb"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

func (d DatabaseOptions) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		d.Host, d.User, d.Password, d.Name, d.Port, d.SSLMode)
}

type RedisOptions struct {
	Addr          string `env:"REDIS_ADDR"`
	Password      string `env:"REDIS_PASSWORD"`
	DB            int    `env:"REDIS_DB" envDefault:"0"`
	EventsChannel string `env:"EVENTS_CHANNEL" envDefault:"complaints:events"`
}

func (r RedisOptions) Enabled() bool { return r.Addr != "" }

type UploadOptions struct {
	Dir       string `env:"UPLOAD_DIR" envDefault:"uploads/complaints"`
	URLPrefix string `env:"UPLOAD_URL_PREFIX" envDefault:"/uploads/complaints"`
}

type RateLimitOptions struct {
	Enabled bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	Rate    string `env:"RATE_LIMIT" envDefault:"60-M"`
}

type TelegramOptions struct {
	BotToken      string `env:"TELEGRAM_BOT_TOKEN"`
	ManagerChatID int64  `env:"TELEGRAM_MANAGER_CHAT_ID"`
}

func (t TelegramOptions) Enabled() bool { return t.BotToken != "" && t.ManagerChatID != 0 }

type Config struct {
	Env         string   `env:"APP_ENV" envDefault:"development"`
	HTTPAddr    string   `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel    string   `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string   `env:"LOG_FORMAT" envDefault:"text"`
	JWTSecret   string   `env:"JWT_SECRET,required,notEmpty"`
	JWTIssuer   string   `env:"JWT_ISSUER" envDefault:"complainthub"`
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	MetricsPath string   `env:"METRICS_PATH" envDefault:"/metrics"`

	Database  DatabaseOptions
	Redis     RedisOptions
	Uploads   UploadOptions
	RateLimit RateLimitOptions
	Telegram  TelegramOptions
}

// LoadEnv loads whichever of the given dotenv files exist. Missing files are not an error.
func LoadEnv(files ...string) error {
	existing := make([]string, 0, len(files))
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	return godotenv.Load(existing...)
}

// Load reads .env files (if any) and parses the environment into a Config.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env", ".env.local"}
	}
	if err := LoadEnv(files...); err != nil {
		return nil, fmt.Errorf("config: load env files: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: parse environment: %w", err)
	}
	return cfg, nil
}
