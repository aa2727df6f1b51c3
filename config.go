package leafbuild

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
)

// ErrConfigValidation is returned when configuration validation fails
var ErrConfigValidation = errors.New("configuration validation failed")

// Config represents the leafbuild configuration, normally read from
// leafbuild.yaml next to the build file.
type Config struct {
	// Entry is the build description file name.
	Entry string `yaml:"entry"`
	// OutputDir receives the generated build.ninja.
	OutputDir  string           `yaml:"output_dir"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Toolchain  ToolchainConfig  `yaml:"toolchain"`
	Output     OutputConfig     `yaml:"output"`
}

// EvaluationConfig controls how build file errors are handled.
type EvaluationConfig struct {
	// DisableErrorCascade stops evaluation at the first runtime error
	// instead of poisoning dependent results and continuing.
	DisableErrorCascade bool `yaml:"disable_error_cascade"`
	// MaxDiagnostics caps how many diagnostics are rendered per run.
	MaxDiagnostics int `yaml:"max_diagnostics"`
}

// ToolchainConfig overrides compiler discovery. Empty fields fall back to
// the CC/CXX/AR environment variables and then to PATH search.
type ToolchainConfig struct {
	CC       string   `yaml:"cc"`
	CXX      string   `yaml:"cxx"`
	AR       string   `yaml:"ar"`
	CFlags   []string `yaml:"cflags"`
	CXXFlags []string `yaml:"cxxflags"`
	LDFlags  []string `yaml:"ldflags"`
}

// OutputConfig represents terminal output settings
type OutputConfig struct {
	// Color is one of auto, always, never.
	Color string `yaml:"color"`
	// CI forces plain machine-friendly output regardless of Color.
	CI bool `yaml:"ci"`
}

// LoadConfig loads configuration from the specified file
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	// Check if config file exists
	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		// Return default configuration if file doesn't exist
		config := getDefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML with strict mode to detect unknown fields
	var config Config

	err = yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Validate the configuration
	if err := validateConfig(&config); err != nil {
		return nil, err
	}

	// Apply defaults for missing values
	applyDefaults(&config)

	// Expand environment variables
	expandConfigEnvVars(&config)

	return &config, nil
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	validColorModes := map[string]bool{
		"auto":   true,
		"always": true,
		"never":  true,
	}

	if config.Output.Color != "" && !validColorModes[config.Output.Color] {
		return fmt.Errorf("%w: invalid color mode '%s': must be one of auto, always, never", ErrConfigValidation, config.Output.Color)
	}

	if config.Evaluation.MaxDiagnostics < 0 {
		return fmt.Errorf("%w: evaluation.max_diagnostics must be non-negative, got %d", ErrConfigValidation, config.Evaluation.MaxDiagnostics)
	}

	return nil
}

// getDefaultConfig returns the default configuration
func getDefaultConfig() *Config {
	return &Config{
		Entry:     "build.leaf",
		OutputDir: "leafbuild-dir",
		Evaluation: EvaluationConfig{
			DisableErrorCascade: false,
			MaxDiagnostics:      20,
		},
		Output: OutputConfig{
			Color: "auto",
		},
	}
}

// applyDefaults applies default values to missing configuration fields
func applyDefaults(config *Config) {
	if config.Entry == "" {
		config.Entry = "build.leaf"
	}

	if config.OutputDir == "" {
		config.OutputDir = "leafbuild-dir"
	}

	if config.Evaluation.MaxDiagnostics == 0 {
		config.Evaluation.MaxDiagnostics = 20
	}

	if config.Output.Color == "" {
		config.Output.Color = "auto"
	}
}

// loadEnvFiles loads environment variables from .env files
func loadEnvFiles() error {
	// Try to load .env file if it exists
	if fileExists(".env") {
		err := godotenv.Load(".env")
		if err != nil {
			return fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	return nil
}

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	// Pattern for ${VAR} format
	re1 := regexp.MustCompile(`\$\{([^}]+)\}`)
	s = re1.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[2 : len(match)-1] // Remove ${ and }
		return os.Getenv(varName)
	})

	// Pattern for $VAR format (word boundaries)
	re2 := regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
	s = re2.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1:] // Remove $
		return os.Getenv(varName)
	})

	return s
}

// expandConfigEnvVars expands environment variables in configuration values
func expandConfigEnvVars(config *Config) {
	config.Entry = expandEnvVars(config.Entry)
	config.OutputDir = expandEnvVars(config.OutputDir)

	config.Toolchain.CC = expandEnvVars(config.Toolchain.CC)
	config.Toolchain.CXX = expandEnvVars(config.Toolchain.CXX)
	config.Toolchain.AR = expandEnvVars(config.Toolchain.AR)

	for i, flag := range config.Toolchain.CFlags {
		config.Toolchain.CFlags[i] = expandEnvVars(flag)
	}

	for i, flag := range config.Toolchain.CXXFlags {
		config.Toolchain.CXXFlags[i] = expandEnvVars(flag)
	}

	for i, flag := range config.Toolchain.LDFlags {
		config.Toolchain.LDFlags[i] = expandEnvVars(flag)
	}
}

// fileExists checks if a file exists
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}
