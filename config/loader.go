package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/yake/errors"
)

// EnvPrefix marks the environment variables read as settings.
const EnvPrefix = "YAKE_"

// FileSystem interface for file operations (useful for testing).
type FileSystem interface {
	Exists(path string) bool
	ReadEnv(path string) (map[string]string, error)
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ReadEnv parses a dotenv file without touching the process environment.
func (rfs *RealFileSystem) ReadEnv(path string) (map[string]string, error) {
	return godotenv.Read(path)
}

// Resolver handles finding and resolving config and env files.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

var (
	configSearchPaths = []string{
		"./.yake.yml",
		"./.yake.yaml",
		"./config/yake.yml",
		"./config/yake.yaml",
	}
	envSearchPaths = []string{
		"./.env.yake",
		"./.env",
	}
)

// ResolveFiles returns explicit paths if provided, otherwise searches for them.
func (cr *Resolver) ResolveFiles(opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.first(configSearchPaths)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.first(envSearchPaths)
	}

	return resolved
}

func (cr *Resolver) first(paths []string) string {
	for _, path := range paths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	// Environ supplies the process environment; defaults to os.Environ.
	Environ func() []string
}

// LoaderOption is a functional option for Load.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnviron sets the environment source.
func WithEnviron(fn func() []string) LoaderOption {
	return func(lc *LoaderConfig) { lc.Environ = fn }
}

// Load resolves the config and env files, applies YAKE_ variables and
// defaults. Validation is left to the caller so flags can be applied first.
func Load(opts ...LoaderOption) (*Config, error) {
	explicit := LoaderConfig{}
	for _, opt := range opts {
		opt(&explicit)
	}
	if explicit.FileSystem == nil {
		explicit.FileSystem = &RealFileSystem{}
	}
	if explicit.Environ == nil {
		explicit.Environ = os.Environ
	}

	if explicit.ConfigFile != "" && !explicit.FileSystem.Exists(explicit.ConfigFile) {
		return nil, errors.NotFound("config file", explicit.ConfigFile)
	}

	resolver := &Resolver{FileSystem: explicit.FileSystem}
	files := resolver.ResolveFiles(explicit)

	cfg := &Config{}
	if err := loadFromResolvedFiles(cfg, files, explicit); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// loadFromResolvedFiles loads configuration from specific files.
func loadFromResolvedFiles(cfg *Config, files ResolvedFiles, lc LoaderConfig) error {
	v := viper.New()

	// 1. YAML config (base configuration)
	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return errors.InvalidConfig("failed to read config file "+files.ConfigFile, err)
		}
	}

	// 2. .env file, then the process environment on top
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		values, err := lc.FileSystem.ReadEnv(files.EnvFile)
		if err != nil {
			return errors.InvalidConfig("failed to read env file "+files.EnvFile, err)
		}
		for key, value := range values {
			bindEnvVar(v, key, value)
		}
	}
	for _, kv := range lc.Environ() {
		key, value, ok := strings.Cut(kv, "=")
		if ok {
			bindEnvVar(v, key, value)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidConfig("failed to decode configuration", err)
	}
	return nil
}

// bindEnvVar maps a YAKE_ variable onto every config key it could name.
func bindEnvVar(v *viper.Viper, key, value string) {
	if !strings.HasPrefix(key, EnvPrefix) {
		return
	}
	for _, variant := range generateEnvKeyVariants(strings.TrimPrefix(key, EnvPrefix)) {
		v.Set(variant, value)
	}
}

// generateEnvKeyVariants creates all possible key variants for environment variable binding.
// Examples:
//
//	LOGGING_LEVEL -> [logging_level, logging.level]
//	TELEMETRY_SAMPLE_RATE -> [telemetry_sample_rate, telemetry.sample.rate, telemetry.sample_rate]
func generateEnvKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")

	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{
		lowerKey,
		strings.ReplaceAll(lowerKey, "_", "."),
	}

	// Progressive nesting: a.b_c, a.b.c_d, ...
	for i := 1; i < len(parts); i++ {
		prefix := strings.Join(parts[:i], ".")
		suffix := strings.Join(parts[i:], "_")
		variants = append(variants, prefix+"."+suffix)
	}

	return removeDuplicates(variants)
}

// removeDuplicates removes duplicate strings from a slice.
func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))

	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}

	return result
}
