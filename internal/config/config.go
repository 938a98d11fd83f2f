package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/beanwright/jbgen/internal/loginject"
	"github.com/beanwright/jbgen/internal/synth"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the name of the jbgen configuration file
const ConfigFileName = "config.yaml"

// ConfigDirName is the name of the jbgen configuration directory
const ConfigDirName = ".jbgen"

// HistoryFileName is the run history database inside the config directory
const HistoryFileName = "history.db"

// Config holds all jbgen configuration
type Config struct {
	Generate GenerateConfig `yaml:"generate"`
	Logger   LoggerConfig   `yaml:"logger"`
	Batch    BatchConfig    `yaml:"batch"`
}

// GenerateConfig controls member synthesis
type GenerateConfig struct {
	GetterSetter        bool   `yaml:"getter_setter"`
	ToString            bool   `yaml:"to_string"`
	ToStringStyle       string `yaml:"to_string_style"`
	ProcessInnerClasses bool   `yaml:"process_inner_classes"`
}

// LoggerConfig controls logger field injection for business classes
type LoggerConfig struct {
	Inject    bool   `yaml:"inject"`
	Type      string `yaml:"type"`
	FieldName string `yaml:"field_name"`
}

// BatchConfig controls multi-file runs
type BatchConfig struct {
	Exclude       []string `yaml:"exclude"`
	SkipUnchanged bool     `yaml:"skip_unchanged"`
}

// ErrConfigNotFound is returned when no config file can be found
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig is returned when config validation fails
var ErrInvalidConfig = errors.New("invalid configuration")

// Load reads config from .jbgen/config.yaml, falling back to defaults.
// It searches for the config directory starting from workDir and walking up
// the directory tree. If no config is found, returns defaults.
func Load(workDir string) (*Config, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		return DefaultConfig(), nil
	}

	configPath := filepath.Join(configDir, ConfigFileName)
	return LoadFromPath(configPath)
}

// LoadFromPath reads config from a specific path.
// The file is decoded on top of the defaults, so keys it leaves out keep
// their default value, and the result is validated.
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	loaded := DefaultConfig()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	// Explicitly blank strings and lists fall back to defaults too.
	merged := Merge(loaded, DefaultConfig())

	if err := Validate(merged); err != nil {
		return nil, err
	}

	return merged, nil
}

// FindConfigDir locates the .jbgen directory by walking up from startDir.
// Returns the path to the .jbgen directory if found.
func FindConfigDir(startDir string) (string, error) {
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	currentDir := absDir
	for {
		configDir := filepath.Join(currentDir, ConfigDirName)
		info, err := os.Stat(configDir)
		if err == nil && info.IsDir() {
			return configDir, nil
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", ErrConfigNotFound
		}
		currentDir = parentDir
	}
}

// EnsureConfigDir creates the .jbgen directory if it doesn't exist.
// Returns the path to the .jbgen directory.
func EnsureConfigDir(workDir string) (string, error) {
	absDir, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	configDir := filepath.Join(absDir, ConfigDirName)

	info, err := os.Stat(configDir)
	if err == nil {
		if info.IsDir() {
			return configDir, nil
		}
		return "", fmt.Errorf("%s exists but is not a directory", configDir)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}

	return configDir, nil
}

// Validate checks that config values are valid.
// Returns an error if validation fails.
func Validate(cfg *Config) error {
	if !synth.IsValidStyle(cfg.Generate.ToStringStyle) {
		return fmt.Errorf("%w: to_string_style must be one of %v, got %q",
			ErrInvalidConfig, synth.ValidStyles, cfg.Generate.ToStringStyle)
	}

	if !loginject.IsValidKind(cfg.Logger.Type) {
		return fmt.Errorf("%w: logger type must be one of %v, got %q",
			ErrInvalidConfig, loginject.ValidKinds, cfg.Logger.Type)
	}

	if !isJavaIdentifier(cfg.Logger.FieldName) {
		return fmt.Errorf("%w: logger field_name must be a Java identifier, got %q",
			ErrInvalidConfig, cfg.Logger.FieldName)
	}

	// Existing loggers are only recognized by a name containing "log".
	if !strings.Contains(strings.ToLower(cfg.Logger.FieldName), "log") {
		return fmt.Errorf("%w: logger field_name must contain \"log\", got %q",
			ErrInvalidConfig, cfg.Logger.FieldName)
	}

	for _, pattern := range cfg.Batch.Exclude {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return fmt.Errorf("%w: bad exclude pattern %q: %v", ErrInvalidConfig, pattern, err)
		}
	}

	return nil
}

// SaveDefault writes the default configuration to .jbgen/config.yaml in workDir.
// Creates the .jbgen directory if it doesn't exist.
func SaveDefault(workDir string) (string, error) {
	configDir, err := EnsureConfigDir(workDir)
	if err != nil {
		return "", err
	}

	configPath := filepath.Join(configDir, ConfigFileName)

	if _, err := os.Stat(configPath); err == nil {
		return "", fmt.Errorf("config file already exists: %s", configPath)
	}

	cfg := DefaultConfig()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshaling config: %w", err)
	}

	header := "# jbgen configuration\n# to_string_style: json | simple | apache\n# logger.type: slf4j | log4j | jul\n\n"
	data = append([]byte(header), data...)

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}

	return configPath, nil
}

// HistoryPath returns where the run history database lives for workDir:
// next to an existing config directory, or in workDir/.jbgen otherwise.
func HistoryPath(workDir string) (string, error) {
	configDir, err := FindConfigDir(workDir)
	if err != nil {
		if configDir, err = EnsureConfigDir(workDir); err != nil {
			return "", err
		}
	}
	return filepath.Join(configDir, HistoryFileName), nil
}

func isJavaIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
