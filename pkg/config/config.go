package config

import (
	"os"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/kayleyai/kayley/pkg/helpers"
)

type Config struct {
	DBDriver          string
	DBPath            string
	CompletionsAPIURL string
	CompletionsAPIKey string
	CompletionsModel  string
	NatsURL           string
	Persona           string
	Categories        string
	CategoryCap       int
	DefaultTTLHours   int
	SelectCeiling     int
	MatcherKind       string
	FragmentLength    int
	OverlapMinScore   float64
	GenerateChance    float64
	TickMinSeconds    int
	TickMaxSeconds    int
	GenTimeoutSeconds int
}

func getEnv(key, defaultValue string, printEnv bool) string {
	logger := log.Default()
	value := os.Getenv(key)
	if printEnv {
		logger.Info("Env", "key", key, "value", value)
	}
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int, printEnv bool) int {
	raw := getEnv(key, "", printEnv)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Default().Warn("Ignoring non-integer env value", "key", key, "value", raw)
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64, printEnv bool) float64 {
	raw := getEnv(key, "", printEnv)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Default().Warn("Ignoring non-numeric env value", "key", key, "value", raw)
		return defaultValue
	}
	return value
}

func LoadConfig(printEnv bool) (*Config, error) {
	_ = helpers.LoadEnvFile(5)

	conf := &Config{
		DBDriver:          getEnv("DB_DRIVER", "sqlite3", printEnv),
		DBPath:            getEnv("DB_PATH", "./output/sqlite/surfacing.db", printEnv),
		CompletionsAPIURL: getEnv("COMPLETIONS_API_URL", "https://api.openai.com/v1", printEnv),
		CompletionsAPIKey: getEnv("COMPLETIONS_API_KEY", "", printEnv),
		CompletionsModel:  getEnv("COMPLETIONS_MODEL", "gpt-4.1-mini", printEnv),
		NatsURL:           getEnv("NATS_URL", "", printEnv),
		Persona:           getEnv("PERSONA", "Kayley, 27, illustrator, plays guitar badly on purpose", printEnv),
		Categories:        getEnv("CATEGORIES", "activity,mood,discovery", printEnv),
		CategoryCap:       getEnvInt("CATEGORY_CAP", 5, printEnv),
		DefaultTTLHours:   getEnvInt("DEFAULT_TTL_HOURS", 72, printEnv),
		SelectCeiling:     getEnvInt("SELECT_CEILING", 3, printEnv),
		MatcherKind:       getEnv("MATCHER_KIND", "fragment", printEnv),
		FragmentLength:    getEnvInt("FRAGMENT_LENGTH", 30, printEnv),
		OverlapMinScore:   getEnvFloat("OVERLAP_MIN_SCORE", 0.4, printEnv),
		GenerateChance:    getEnvFloat("GENERATE_CHANCE", 0.3, printEnv),
		TickMinSeconds:    getEnvInt("TICK_MIN_SECONDS", 1800, printEnv),
		TickMaxSeconds:    getEnvInt("TICK_MAX_SECONDS", 3600, printEnv),
		GenTimeoutSeconds: getEnvInt("GEN_TIMEOUT_SECONDS", 30, printEnv),
	}

	return conf, nil
}
