package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type MediaConfig struct {
	Driver         string // "minio" or "s3"
	Bucket         string
	PublicURL      string
	MinIOEndpoint  string
	MinIOAccessKey string
	MinIOSecretKey string
	MinIOUseSSL    bool
	S3Region       string
	S3Endpoint     string
	MaxFileSize    int64
	MaxImageWidth  int
}

type Config struct {
	Env                    string
	Port                   string
	MongoURI               string
	MongoDatabase          string
	JWTSecret              string
	JWTTTL                 time.Duration
	BcryptCost             int
	CORSOrigins            []string
	AllowAdminRegistration bool
	AuthRatePerMinute      int
	ShutdownTimeout        time.Duration
	Media                  MediaConfig
}

// IsDevelopment reports whether the service runs in development mode.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// Load reads the configuration from the environment, after loading a .env file when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables.")
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("APP_ENV", "development")
	v.SetDefault("API_PORT", "8080")
	v.SetDefault("MONGO_DATABASE", "portfolio")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173")
	v.SetDefault("ALLOW_ADMIN_REGISTRATION", false)
	v.SetDefault("AUTH_RATE_PER_MINUTE", 10)
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("MEDIA_DRIVER", "minio")
	v.SetDefault("MEDIA_BUCKET", "portfolio-media")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MEDIA_MAX_FILE_SIZE", 10<<20)
	v.SetDefault("MEDIA_MAX_IMAGE_WIDTH", 1920)
	return v
}

// FromViper builds and validates a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Env:                    v.GetString("APP_ENV"),
		Port:                   v.GetString("API_PORT"),
		MongoURI:               v.GetString("MONGO_URI"),
		MongoDatabase:          v.GetString("MONGO_DATABASE"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		JWTTTL:                 v.GetDuration("JWT_TTL"),
		BcryptCost:             v.GetInt("BCRYPT_COST"),
		CORSOrigins:            splitCSV(v.GetString("CORS_ORIGINS")),
		AllowAdminRegistration: v.GetBool("ALLOW_ADMIN_REGISTRATION"),
		AuthRatePerMinute:      v.GetInt("AUTH_RATE_PER_MINUTE"),
		ShutdownTimeout:        v.GetDuration("SHUTDOWN_TIMEOUT"),
		Media: MediaConfig{
			Driver:         strings.ToLower(v.GetString("MEDIA_DRIVER")),
			Bucket:         v.GetString("MEDIA_BUCKET"),
			PublicURL:      strings.TrimRight(v.GetString("MEDIA_PUBLIC_URL"), "/"),
			MinIOEndpoint:  v.GetString("MINIO_ENDPOINT"),
			MinIOAccessKey: v.GetString("MINIO_ACCESS_KEY"),
			MinIOSecretKey: v.GetString("MINIO_SECRET_KEY"),
			MinIOUseSSL:    v.GetBool("MINIO_USE_SSL"),
			S3Region:       v.GetString("S3_REGION"),
			S3Endpoint:     v.GetString("S3_ENDPOINT"),
			MaxFileSize:    v.GetInt64("MEDIA_MAX_FILE_SIZE"),
			MaxImageWidth:  v.GetInt("MEDIA_MAX_IMAGE_WIDTH"),
		},
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.JWTTTL <= 0 {
		return nil, fmt.Errorf("JWT_TTL must be a positive duration")
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 15 * time.Second
	}
	switch cfg.Media.Driver {
	case "minio":
		if cfg.Media.MinIOEndpoint == "" {
			return nil, fmt.Errorf("MINIO_ENDPOINT is required when MEDIA_DRIVER is minio")
		}
	case "s3":
		if cfg.Media.S3Region == "" {
			return nil, fmt.Errorf("S3_REGION is required when MEDIA_DRIVER is s3")
		}
	default:
		return nil, fmt.Errorf("unknown MEDIA_DRIVER %q", cfg.Media.Driver)
	}
	if cfg.Media.Bucket == "" {
		return nil, fmt.Errorf("MEDIA_BUCKET is required")
	}
	return cfg, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}
