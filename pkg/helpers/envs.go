package helpers

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnvFile loads the nearest .env file, checking ENV_FILE first, then
// the current directory, then up to maxDepth parent directories.
func LoadEnvFile(maxDepth int) error {
	if maxDepth <= 0 {
		maxDepth = 5
	}

	if envFilePath := os.Getenv("ENV_FILE"); envFilePath != "" {
		if err := godotenv.Load(envFilePath); err == nil {
			return nil
		}
	}

	path := ".env"
	if err := godotenv.Load(path); err == nil {
		return nil
	}

	prefix := ".."
	for i := 1; i <= maxDepth; i++ {
		path = prefix + "/.env"
		if err := godotenv.Load(path); err == nil {
			return nil
		}
		prefix = prefix + "/.."
	}

	return fmt.Errorf("could not find .env file after checking %d parent directories", maxDepth)
}
