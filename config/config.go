package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	ServerPort string
	LogLevel   string
	LogFormat  string

	DatabaseDbPath string

	CacheAddress   string
	CacheGeneralDB int
	CacheSessionDB int
	CacheGeocodeDB int

	GeocoderBaseURL  string
	GeocoderTimeout  time.Duration
	GeocoderCacheTTL time.Duration

	SessionTTL time.Duration
}

func InitConfig() (Config, error) {
	viper.SetEnvPrefix("GATEHOUSE")
	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")
	viper.SetDefault("DATABASE_PATH", "data/gatehouse.db")
	viper.SetDefault("CACHE_ADDRESS", "localhost:6379")
	viper.SetDefault("CACHE_GENERAL_DB", 0)
	viper.SetDefault("CACHE_SESSION_DB", 1)
	viper.SetDefault("CACHE_GEOCODE_DB", 2)
	viper.SetDefault("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org")
	viper.SetDefault("GEOCODER_TIMEOUT", "5s")
	viper.SetDefault("GEOCODER_CACHE_TTL", "1h")
	viper.SetDefault("SESSION_TTL", "24h")

	config := Config{
		ServerPort:       viper.GetString("SERVER_PORT"),
		LogLevel:         viper.GetString("LOG_LEVEL"),
		LogFormat:        viper.GetString("LOG_FORMAT"),
		DatabaseDbPath:   viper.GetString("DATABASE_PATH"),
		CacheAddress:     viper.GetString("CACHE_ADDRESS"),
		CacheGeneralDB:   viper.GetInt("CACHE_GENERAL_DB"),
		CacheSessionDB:   viper.GetInt("CACHE_SESSION_DB"),
		CacheGeocodeDB:   viper.GetInt("CACHE_GEOCODE_DB"),
		GeocoderBaseURL:  viper.GetString("GEOCODER_BASE_URL"),
		GeocoderTimeout:  viper.GetDuration("GEOCODER_TIMEOUT"),
		GeocoderCacheTTL: viper.GetDuration("GEOCODER_CACHE_TTL"),
		SessionTTL:       viper.GetDuration("SESSION_TTL"),
	}

	return config, nil
}
