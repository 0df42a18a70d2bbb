package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServiceName string
	LogLevel    string

	ServerPort int

	DBDriver    string
	DatabaseURL string

	JWTAccessSecret []byte

	KafkaBrokers    []string
	KafkaOrderTopic string

	ESURL       string
	ESUser      string
	ESPassword  string
	ESDishIndex string
}

// LoadEnvFile reads path into the process environment. A missing file is not
// an error; variables already set win over the file.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load(path)
}

func Load() Config {
	driver := strings.ToLower(EnvDefault("DB_DRIVER", "postgres"))
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" && driver == "sqlite" {
		dsn = "fooddb.sqlite"
	}

	return Config{
		ServiceName: EnvDefault("SERVICE_NAME", "fooddb"),
		LogLevel:    EnvDefault("LOG_LEVEL", "info"),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		DBDriver:    driver,
		DatabaseURL: dsn,

		JWTAccessSecret: []byte(os.Getenv("JWT_SECRET")),

		KafkaBrokers:    CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaOrderTopic: EnvDefault("KAFKA_ORDER_TOPIC", "order_events"),

		ESURL:       os.Getenv("ES_URL"),
		ESUser:      os.Getenv("ES_USER"),
		ESPassword:  os.Getenv("ES_PASSWORD"),
		ESDishIndex: EnvDefault("ES_DISH_INDEX", "dishes"),
	}
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
