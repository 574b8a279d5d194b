package config

import (
	"github.com/caarlos0/env/v10"
	_ "github.com/joho/godotenv/autoload"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Admin  AdminConfig
	SMTP   SMTPConfig
	Chat   ChatConfig
	Maps   MapsConfig
}

type ServerConfig struct {
	Port string `env:"SERVER_PORT" envDefault:"8080"`
}

type MongoConfig struct {
	URI    string `env:"MONGO_URI" envDefault:"mongodb://localhost:27017"`
	DBName string `env:"MONGO_DBNAME" envDefault:"pantoufles"`
}

type RedisConfig struct {
	URL string `env:"REDIS_URL" envDefault:"redis://localhost:6379"`
}

// AdminConfig is the single admin credential pair exchanged for a JWT at
// /api/login.
type AdminConfig struct {
	Username  string `env:"ADMIN_USERNAME" envDefault:"admin"`
	Password  string `env:"ADMIN_PASSWORD,required"`
	JWTSecret string `env:"JWT_SECRET,required"`
}

type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	Sender   string `env:"SMTP_SENDER" envDefault:"noreply@pantoufles.fr"`
}

type ChatConfig struct {
	APIKey string `env:"CLAUDE_API_KEY"`
	Model  string `env:"CLAUDE_MODEL" envDefault:"claude-sonnet-4-20250514"`
}

type MapsConfig struct {
	APIKey string `env:"GOOGLE_MAPS_API_KEY"`
}

// NewConfig parses configuration from the environment.
func NewConfig() (*Config, error) {
	cfg := new(Config)
	err := env.Parse(cfg)

	return cfg, err
}
