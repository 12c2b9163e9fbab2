// Package env reads configuration from a .env file with the OS environment
// as fallback.
package env

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// maxParentDirs bounds the upward search for a .env file.
const maxParentDirs = 3

// Env holds the values read from the .env file.
var Env map[string]string

func GetEnv(key, def string) string {
	if val, ok := Env[key]; ok {
		return val
	}
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// GetEnvInt reads an integer setting; unparsable values yield def.
func GetEnvInt(key string, def int) int {
	raw := GetEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

// GetEnvBool accepts the forms strconv.ParseBool does; anything else
// yields def.
func GetEnvBool(key string, def bool) bool {
	raw := GetEnv(key, "")
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

// SetupEnvFile loads ENV_FILE, or the first .env found in the working
// directory or up to three of its parents (cmd/localpros runs two levels
// below the project root).
func SetupEnvFile() {
	for _, path := range candidates() {
		values, err := godotenv.Read(path)
		if err == nil {
			Env = values
			return
		}
	}

	Env = map[string]string{}
	log.Printf("Warning: no .env file found, using OS environment only")
}

func candidates() []string {
	if path := os.Getenv("ENV_FILE"); path != "" {
		return []string{path}
	}
	dir, err := os.Getwd()
	if err != nil {
		return []string{".env"}
	}
	var paths []string
	for i := 0; i <= maxParentDirs; i++ {
		paths = append(paths, filepath.Join(dir, ".env"))
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return paths
}

func IsDev() bool {
	return GetEnv("APP_ENV", "prod") == "dev"
}
