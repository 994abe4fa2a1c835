package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string `yaml:"env" env:"ENV" env-default:"local"`
	Storage     `yaml:"storage"`
	RedisAddr   string `yaml:"redis_addr" env:"REDIS_ADDR" env-default:""`
	HTTPServer  `yaml:"http_server"`
	Shop        `yaml:"shop"`
}

type Storage struct {
	Driver string `yaml:"driver" env:"STORAGE_DRIVER" env-default:"file"`
	// Path is a file path for the file driver, a DSN for the postgres driver.
	Path   string `yaml:"path" env:"STORAGE_PATH" env-required:"true"`
	ShopID string `yaml:"shop_id" env:"SHOP_ID" env-default:"davids-larder"`
}

type HTTPServer struct {
	Address         string        `yaml:"address" env-default:"localhost:8080"`
	Timeout         time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env-default:"15s"`
}

type Shop struct {
	Name         string  `yaml:"name" env-default:"David's Larder"`
	OpenTime     string  `yaml:"open_time" env-default:"07:30"`
	CloseTime    string  `yaml:"close_time" env-default:"18:00"`
	SlotMinutes  int     `yaml:"slot_minutes" env-default:"30"`
	FlatRatePerKg float64 `yaml:"flat_rate_per_kg" env-default:"12.50"`
}

func MustLoad() *Config {
	var cfg Config

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml"
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("Config file does not exist: %s", configPath)
	}

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("Failed to read config file: %v", err)
	}

	return &cfg
}
