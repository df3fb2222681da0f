package config

import (
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "supersecretjwtkey"

type Config struct {
	Port string
	Env  string

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// DBDriver is one of memory, postgres, mysql or sqlite.
	DBDriver    string
	DatabaseURL string

	MongoURI      string
	MongoDatabase string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	FirebaseCredentialsPath string
	FirebaseProjectID       string
	MetricsPort             string
	AuthRatePerMinute       int
	// TrustedProxies are the CIDRs allowed to set X-Forwarded-For.
	TrustedProxies []*net.IPNet
}

// Load reads .env (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		JWTSecret:               getEnv("JWT_SECRET", DefaultJWTSecret),
		TokenTTL:                time.Duration(getEnvAsInt("ACCESS_TOKEN_EXPIRE_MINUTES", 30)) * time.Minute,
		BcryptCost:              getEnvAsInt("BCRYPT_COST", 10),
		DBDriver:                getEnv("DB_DRIVER", "memory"),
		DatabaseURL:             getEnv("DATABASE_URL", ""),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "socialmedia"),
		RedisAddr:               getEnv("REDIS_ADDR", ""),
		RedisPassword:           getEnv("REDIS_PASSWORD", ""),
		RedisDB:                 getEnvAsInt("REDIS_DB", 0),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		MetricsPort:             getEnv("METRICS_PORT", "9090"),
		AuthRatePerMinute:       getEnvAsInt("AUTH_RATE_PER_MINUTE", 30),
	}

	trusted, err := parseCIDRs(getEnv("TRUSTED_PROXIES", ""))
	if err != nil {
		return nil, err
	}
	cfg.TrustedProxies = trusted

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "memory":
	case "postgres", "mysql", "sqlite":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL must be set when DB_DRIVER=%s", c.DBDriver)
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.Env == "production" && c.JWTSecret == DefaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}
	if c.FirebaseCredentialsPath != "" {
		if _, err := os.Stat(c.FirebaseCredentialsPath); err != nil {
			return fmt.Errorf("FIREBASE_CREDENTIALS_PATH: %w", err)
		}
	}
	return nil
}

// FirebaseEnabled reports whether /firebase-login should be served.
func (c *Config) FirebaseEnabled() bool {
	return c.FirebaseCredentialsPath != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

// parseCIDRs reads a comma-separated list such as "10.0.0.0/8, 192.168.1.1".
// Bare addresses are treated as single-host ranges.
func parseCIDRs(value string) ([]*net.IPNet, error) {
	var networks []*net.IPNet
	for _, part := range strings.Split(value, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if !strings.Contains(part, "/") {
			ip := net.ParseIP(part)
			if ip == nil {
				return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q", part)
			}
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			networks = append(networks, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, network, err := net.ParseCIDR(part)
		if err != nil {
			return nil, fmt.Errorf("invalid TRUSTED_PROXIES entry %q: %w", part, err)
		}
		networks = append(networks, network)
	}
	return networks, nil
}
