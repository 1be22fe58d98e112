package confkit

import (
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// LoadDotenvOnce loads a .env file into the environment before config
// parsing. The first call wins; later calls are no-ops. Variables already set
// in the environment are kept unless DOTENV_OVERLOAD=1. ENV_FILE forces a
// specific file; NO_DOTENV=1 disables loading entirely.
func LoadDotenvOnce() {
	dotenvOnce.Do(loadDotenv)
}

func loadDotenv() {
	if os.Getenv("NO_DOTENV") == "1" {
		return
	}

	load := godotenv.Load
	if os.Getenv("DOTENV_OVERLOAD") == "1" {
		load = godotenv.Overload
	}

	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		_ = load(envFile)
		return
	}

	// Try a .env in every directory between this file and the repository
	// root, so a root-level .env is found from any package.
	if _, file, _, ok := runtime.Caller(0); ok {
		walkUp(filepath.Dir(file), func(dir string) {
			_ = load(filepath.Join(dir, ".env"))
		})
		return
	}

	_ = load(".env")
}
