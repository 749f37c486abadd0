package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	AppName = "priceadjust"
	Version = "0.1.0"
)

type Config struct {
	HTTPAddr    string
	LogLevel    string
	Coefficient float64 // 0 means use adjust.Coefficient
}

// Load reads PRICEADJUST_* variables, after merging an optional .env file
// from the working directory. Variables already set in the environment win.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}
	return FromEnv()
}

// LoadFile is Load with an explicit .env path.
func LoadFile(path string) (Config, error) {
	if err := godotenv.Load(path); err != nil {
		return Config{}, err
	}
	return FromEnv()
}

// FromEnv reads the PRICEADJUST_* variables. A set but malformed
// coefficient is an error rather than a silent fallback.
func FromEnv() (Config, error) {
	coefficient, err := envFloat("PRICEADJUST_COEFFICIENT", 0)
	if err != nil {
		return Config{}, err
	}
	return Config{
		HTTPAddr:    env("PRICEADJUST_ADDR", ":8080"),
		LogLevel:    env("PRICEADJUST_LOG_LEVEL", "info"),
		Coefficient: coefficient,
	}, nil
}

func env(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func envFloat(key string, def float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: not a number", key, v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("invalid %s %q: must be finite", key, v)
	}
	return f, nil
}
