package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	PokeAPI  PokeAPIConfig
	Cache    CacheConfig
	Redis    RedisConfig
	SQLite   SQLiteConfig
	Dataset  DatasetConfig
	Analysis AnalysisConfig
	Plots    PlotsConfig
	Logging  LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  int
	WriteTimeout int
}

type PokeAPIConfig struct {
	BaseURL    string
	TimeoutSec int
	ListLimit  int
}

type CacheConfig struct {
	Backend string
	Dir     string
	TTLSec  int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type SQLiteConfig struct {
	Path string
}

type DatasetConfig struct {
	Generations []int
	ExportPath  string
}

type AnalysisConfig struct {
	Clusters    int
	Seed        int64
	Components  int
	VarianceMin float64
}

type PlotsConfig struct {
	Dir string
}

type LoggingConfig struct {
	Level      string
	Format     string
	OutputPath string
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("/etc/dexflow")

	viper.SetEnvPrefix("DEXFLOW")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.readTimeout", 30)
	viper.SetDefault("server.writeTimeout", 30)

	viper.SetDefault("pokeapi.baseURL", "https://pokeapi.co/api/v2")
	viper.SetDefault("pokeapi.timeoutSec", 30)
	viper.SetDefault("pokeapi.listLimit", 1000)

	viper.SetDefault("cache.backend", "disk")
	viper.SetDefault("cache.dir", "./data/cache")
	viper.SetDefault("cache.ttlSec", 0)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", 6379)
	viper.SetDefault("redis.db", 0)

	viper.SetDefault("sqlite.path", "./data/dexflow.db")

	viper.SetDefault("dataset.generations", []int{1})
	viper.SetDefault("dataset.exportPath", "./data/dataset.csv")

	viper.SetDefault("analysis.clusters", 6)
	viper.SetDefault("analysis.seed", 42)
	viper.SetDefault("analysis.components", 3)
	viper.SetDefault("analysis.varianceMin", 1e-8)

	viper.SetDefault("plots.dir", "./plots")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.outputPath", "stdout")
}
