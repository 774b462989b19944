package env

import (
	"fmt"

	"github.com/joho/godotenv"
)

// DefaultDotEnv is the file Load reads when given no path.
const DefaultDotEnv = ".env"

// LoadDotEnv parses a .env file and returns key-value pairs without
// touching the process environment.
func LoadDotEnv(path string) (map[string]string, error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read env file: %w", err)
	}
	return vars, nil
}

// LoadAndExportDotEnv parses a .env file, returns key-value pairs and
// exports them to the process environment. Variables that are already set
// keep their value.
func LoadAndExportDotEnv(path string) (map[string]string, error) {
	vars, err := LoadDotEnv(path)
	if err != nil {
		return nil, err
	}
	if err := godotenv.Load(path); err != nil {
		return nil, fmt.Errorf("cannot load env file: %w", err)
	}
	return vars, nil
}

// Load exports path, or .env when path is empty. A missing default file is
// not an error.
func Load(path string) error {
	if path == "" {
		_ = godotenv.Load(DefaultDotEnv)
		return nil
	}
	_, err := LoadAndExportDotEnv(path)
	return err
}
