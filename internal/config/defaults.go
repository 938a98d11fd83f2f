package config

import (
	"github.com/beanwright/jbgen/internal/loginject"
	"github.com/beanwright/jbgen/internal/synth"
)

// DefaultConfig returns configuration with sensible defaults.
// These defaults are used when no config file exists or when
// config file is missing specific fields.
func DefaultConfig() *Config {
	return &Config{
		Generate: GenerateConfig{
			GetterSetter:        true,
			ToString:            true,
			ToStringStyle:       string(synth.StyleJSON),
			ProcessInnerClasses: false,
		},
		Logger: LoggerConfig{
			Inject:    true,
			Type:      string(loginject.SLF4J),
			FieldName: loginject.DefaultFieldName,
		},
		Batch: BatchConfig{
			Exclude: []string{
				"**/target/**",
				"**/build/**",
				"**/generated/**",
			},
			SkipUnchanged: true,
		},
	}
}

// Merge merges loaded config with defaults.
// Non-empty strings and lists from loaded take precedence; booleans are
// taken from loaded as they are, since LoadFromPath decodes on top of the
// defaults already.
// Returns a new Config with merged values.
func Merge(loaded, defaults *Config) *Config {
	result := &Config{}

	result.Generate = mergeGenerateConfig(loaded.Generate, defaults.Generate)
	result.Logger = mergeLoggerConfig(loaded.Logger, defaults.Logger)
	result.Batch = mergeBatchConfig(loaded.Batch, defaults.Batch)

	return result
}

func mergeGenerateConfig(loaded, defaults GenerateConfig) GenerateConfig {
	result := loaded

	if loaded.ToStringStyle == "" {
		result.ToStringStyle = defaults.ToStringStyle
	}

	return result
}

func mergeLoggerConfig(loaded, defaults LoggerConfig) LoggerConfig {
	result := loaded

	if loaded.Type == "" {
		result.Type = defaults.Type
	}
	if loaded.FieldName == "" {
		result.FieldName = defaults.FieldName
	}

	return result
}

func mergeBatchConfig(loaded, defaults BatchConfig) BatchConfig {
	result := loaded

	// An explicit empty list means "exclude nothing" and is kept.
	if loaded.Exclude == nil {
		result.Exclude = defaults.Exclude
	}

	return result
}
