// internal/config/config.go
package config

import (
	"log"
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Forecast ForecastConfig
	Cache    CacheConfig
	Storage  StorageConfig
	App      AppConfig
}

type ServerConfig struct {
	Port           string
	Mode           string
	ReadTimeout    int
	WriteTimeout   int
	AllowedOrigins []string
}

type ForecastConfig struct {
	GeminiAPIKey string
	GeminiModel  string
	HorizonDays  int
	ServiceLevel float64
	LeadTimeDays int
}

type CacheConfig struct {
	Enabled            bool
	RedisURL           string
	RedisHost          string
	RedisPort          string
	RedisPassword      string
	RedisDB            int
	ForecastTTLSeconds int
}

type StorageConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type AppConfig struct {
	DataDir   string
	OutputDir string
}

var (
	once     sync.Once
	instance *Config
)

func Load() *Config {
	once.Do(func() {
		// Load .env file if it exists
		_ = godotenv.Load()

		// Set default values
		viper.SetDefault("SERVER_PORT", "8080")
		viper.SetDefault("SERVER_MODE", "debug")
		viper.SetDefault("SERVER_ALLOWED_ORIGINS", []string{"*"})
		viper.SetDefault("GEMINI_MODEL", "gemini-1.5-pro-latest")
		viper.SetDefault("FORECAST_HORIZON_DAYS", 30)
		viper.SetDefault("FORECAST_SERVICE_LEVEL", 0.95)
		viper.SetDefault("FORECAST_LEAD_TIME_DAYS", 7)
		viper.SetDefault("CACHE_ENABLED", false)
		viper.SetDefault("REDIS_URL", "")
		viper.SetDefault("REDIS_HOST", "127.0.0.1")
		viper.SetDefault("REDIS_PORT", "6379")
		viper.SetDefault("REDIS_PASSWORD", "")
		viper.SetDefault("REDIS_DB", 0)
		viper.SetDefault("CACHE_FORECAST_TTL_SECONDS", 3600)
		viper.SetDefault("STORAGE_ENDPOINT", "")
		viper.SetDefault("STORAGE_BUCKET", "stockcast-sales")
		viper.SetDefault("STORAGE_USE_SSL", true)
		viper.SetDefault("APP_DATA_DIR", "./data/sales")
		viper.SetDefault("APP_OUTPUT_DIR", "./data/output")

		// Read from environment variables
		viper.AutomaticEnv()

		// Ensure data directories exist
		ensureDir(viper.GetString("APP_DATA_DIR"))
		ensureDir(viper.GetString("APP_OUTPUT_DIR"))

		instance = &Config{
			Server: ServerConfig{
				Port:           viper.GetString("SERVER_PORT"),
				Mode:           viper.GetString("SERVER_MODE"),
				ReadTimeout:    viper.GetInt("SERVER_READ_TIMEOUT"),
				WriteTimeout:   viper.GetInt("SERVER_WRITE_TIMEOUT"),
				AllowedOrigins: viper.GetStringSlice("SERVER_ALLOWED_ORIGINS"),
			},
			Forecast: ForecastConfig{
				GeminiAPIKey: viper.GetString("GEMINI_API_KEY"),
				GeminiModel:  viper.GetString("GEMINI_MODEL"),
				HorizonDays:  viper.GetInt("FORECAST_HORIZON_DAYS"),
				ServiceLevel: viper.GetFloat64("FORECAST_SERVICE_LEVEL"),
				LeadTimeDays: viper.GetInt("FORECAST_LEAD_TIME_DAYS"),
			},
			Cache: CacheConfig{
				Enabled:            viper.GetBool("CACHE_ENABLED"),
				RedisURL:           viper.GetString("REDIS_URL"),
				RedisHost:          viper.GetString("REDIS_HOST"),
				RedisPort:          viper.GetString("REDIS_PORT"),
				RedisPassword:      viper.GetString("REDIS_PASSWORD"),
				RedisDB:            viper.GetInt("REDIS_DB"),
				ForecastTTLSeconds: viper.GetInt("CACHE_FORECAST_TTL_SECONDS"),
			},
			Storage: StorageConfig{
				Endpoint:  viper.GetString("STORAGE_ENDPOINT"),
				AccessKey: viper.GetString("STORAGE_ACCESS_KEY"),
				SecretKey: viper.GetString("STORAGE_SECRET_KEY"),
				Bucket:    viper.GetString("STORAGE_BUCKET"),
				UseSSL:    viper.GetBool("STORAGE_USE_SSL"),
			},
			App: AppConfig{
				DataDir:   viper.GetString("APP_DATA_DIR"),
				OutputDir: viper.GetString("APP_OUTPUT_DIR"),
			},
		}
	})

	return instance
}

func ensureDir(dir string) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}
}
