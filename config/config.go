// Package config loads the service configuration from an optional YAML
// file with environment variable overrides. Environment always wins so
// container deployments can skip the file entirely.
package config

import (
	"os"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/vulnwatch/vulnwatch-backend/internal/apperr"
)

// Config is the full service configuration.
type Config struct {
	Port        string      `yaml:"port"`
	CORSOrigins string      `yaml:"cors_origins"`
	Kafka       KafkaConfig `yaml:"kafka"`
}

// KafkaConfig configures the record batch event consumer.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
	Enabled bool     `yaml:"enabled"`
}

// Defaults returns the configuration used when no file and no overrides
// are present.
func Defaults() Config {
	return Config{
		Port:        "3000",
		CORSOrigins: "http://localhost:3000,http://localhost:4000",
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "vuln-record-events",
			GroupID: "vulnwatch-backend-worker",
			Enabled: true,
		},
	}
}

func getEnvDefault(key, defVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defVal
}

// Load reads the YAML file named by CONFIG_FILE (default config.yaml,
// missing file is not an error) and applies environment overrides.
func Load() (Config, error) {
	cfg := Defaults()

	path := getEnvDefault("CONFIG_FILE", "config.yaml")
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, apperr.Validation("config", "malformed config file "+path+": "+err.Error())
		}
	} else if !os.IsNotExist(err) {
		return Config{}, apperr.Store(err, "failed to read config file "+path)
	}

	cfg.Port = getEnvDefault("MS_PORT", cfg.Port)
	cfg.CORSOrigins = getEnvDefault("CORS_ORIGINS", cfg.CORSOrigins)
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Kafka.Brokers = strings.Split(brokers, ",")
	}
	cfg.Kafka.Topic = getEnvDefault("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Kafka.GroupID = getEnvDefault("KAFKA_GROUP_ID", cfg.Kafka.GroupID)
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		cfg.Kafka.Enabled = v == "true" || v == "1"
	}

	return cfg, nil
}
