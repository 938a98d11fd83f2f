package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Generate.GetterSetter || !cfg.Generate.ToString {
		t.Error("expected getter/setter and toString generation on by default")
	}
	if cfg.Generate.ToStringStyle != "json" {
		t.Errorf("expected to_string_style json, got %s", cfg.Generate.ToStringStyle)
	}
	if cfg.Generate.ProcessInnerClasses {
		t.Error("expected process_inner_classes off by default")
	}

	if !cfg.Logger.Inject || cfg.Logger.Type != "slf4j" || cfg.Logger.FieldName != "LOGGER" {
		t.Errorf("unexpected logger defaults: %+v", cfg.Logger)
	}

	if len(cfg.Batch.Exclude) != 3 {
		t.Errorf("expected 3 exclude patterns, got %d", len(cfg.Batch.Exclude))
	}
	if !cfg.Batch.SkipUnchanged {
		t.Error("expected skip_unchanged on by default")
	}

	if err := Validate(cfg); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid default config",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "simple style",
			modify:  func(c *Config) { c.Generate.ToStringStyle = "simple" },
			wantErr: false,
		},
		{
			name:    "unknown style",
			modify:  func(c *Config) { c.Generate.ToStringStyle = "xml" },
			wantErr: true,
		},
		{
			name:    "jul logger",
			modify:  func(c *Config) { c.Logger.Type = "jul" },
			wantErr: false,
		},
		{
			name:    "unknown logger type",
			modify:  func(c *Config) { c.Logger.Type = "logback" },
			wantErr: true,
		},
		{
			name:    "field name with space",
			modify:  func(c *Config) { c.Logger.FieldName = "my log" },
			wantErr: true,
		},
		{
			name:    "field name starting with digit",
			modify:  func(c *Config) { c.Logger.FieldName = "1log" },
			wantErr: true,
		},
		{
			name:    "dollar field name",
			modify:  func(c *Config) { c.Logger.FieldName = "$log_2" },
			wantErr: false,
		},
		{
			name:    "field name without log",
			modify:  func(c *Config) { c.Logger.FieldName = "instance" },
			wantErr: true,
		},
		{
			name:    "lower case log field name",
			modify:  func(c *Config) { c.Logger.FieldName = "log" },
			wantErr: false,
		},
		{
			name:    "mixed case log field name",
			modify:  func(c *Config) { c.Logger.FieldName = "appLogger" },
			wantErr: false,
		},
		{
			name:    "malformed exclude pattern",
			modify:  func(c *Config) { c.Batch.Exclude = []string{"[unclosed"} },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(cfg)
			err := Validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	defaults := DefaultConfig()

	t.Run("empty loaded uses string and list defaults", func(t *testing.T) {
		merged := Merge(&Config{}, defaults)

		if merged.Generate.ToStringStyle != defaults.Generate.ToStringStyle {
			t.Errorf("expected style %s, got %s", defaults.Generate.ToStringStyle, merged.Generate.ToStringStyle)
		}
		if merged.Logger.Type != defaults.Logger.Type || merged.Logger.FieldName != defaults.Logger.FieldName {
			t.Errorf("expected logger defaults, got %+v", merged.Logger)
		}
		if len(merged.Batch.Exclude) != len(defaults.Batch.Exclude) {
			t.Errorf("expected default excludes, got %v", merged.Batch.Exclude)
		}
	})

	t.Run("loaded values take precedence", func(t *testing.T) {
		loaded := &Config{
			Generate: GenerateConfig{ToStringStyle: "apache"},
			Logger:   LoggerConfig{Type: "log4j", FieldName: "log"},
			Batch:    BatchConfig{Exclude: []string{}},
		}
		merged := Merge(loaded, defaults)

		if merged.Generate.ToStringStyle != "apache" {
			t.Errorf("expected apache, got %s", merged.Generate.ToStringStyle)
		}
		if merged.Logger.Type != "log4j" || merged.Logger.FieldName != "log" {
			t.Errorf("unexpected logger: %+v", merged.Logger)
		}
		if merged.Batch.Exclude == nil || len(merged.Batch.Exclude) != 0 {
			t.Errorf("explicit empty exclude list should be kept, got %v", merged.Batch.Exclude)
		}
	})
}

func TestFindConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	projectDir := filepath.Join(tmpDir, "project")
	subDir := filepath.Join(projectDir, "src", "main")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("no config dir returns error", func(t *testing.T) {
		_, err := FindConfigDir(subDir)
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	configDir := filepath.Join(projectDir, ConfigDirName)
	if err := os.Mkdir(configDir, 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("finds config dir in current directory", func(t *testing.T) {
		found, err := FindConfigDir(projectDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})

	t.Run("finds config dir in parent directory", func(t *testing.T) {
		found, err := FindConfigDir(subDir)
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if found != configDir {
			t.Errorf("expected %s, got %s", configDir, found)
		}
	})
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir := t.TempDir()

	dir, err := EnsureConfigDir(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expectedDir := filepath.Join(tmpDir, ConfigDirName)
	if dir != expectedDir {
		t.Errorf("expected %s, got %s", expectedDir, dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("config directory not created: %v", err)
	}

	again, err := EnsureConfigDir(tmpDir)
	if err != nil || again != expectedDir {
		t.Errorf("second call = %s, %v", again, err)
	}
}

func TestLoadFromPath(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("loads valid config file", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		content := `
generate:
  to_string: false
  to_string_style: simple
logger:
  type: jul
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		cfg, err := LoadFromPath(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if cfg.Generate.ToString {
			t.Error("explicit to_string: false should be kept")
		}
		if cfg.Generate.ToStringStyle != "simple" {
			t.Errorf("expected style simple, got %s", cfg.Generate.ToStringStyle)
		}
		if cfg.Logger.Type != "jul" {
			t.Errorf("expected logger jul, got %s", cfg.Logger.Type)
		}

		// Keys left out keep their defaults, booleans included.
		if !cfg.Generate.GetterSetter {
			t.Error("expected default getter_setter true")
		}
		if !cfg.Logger.Inject {
			t.Error("expected default logger.inject true")
		}
		if cfg.Logger.FieldName != "LOGGER" {
			t.Errorf("expected default field name, got %s", cfg.Logger.FieldName)
		}
		if len(cfg.Batch.Exclude) != 3 {
			t.Errorf("expected default excludes, got %v", cfg.Batch.Exclude)
		}
	})

	t.Run("returns defaults for non-existent file", func(t *testing.T) {
		cfg, err := LoadFromPath(filepath.Join(tmpDir, "nonexistent.yaml"))
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if cfg.Generate.ToStringStyle != "json" {
			t.Errorf("expected default style, got %s", cfg.Generate.ToStringStyle)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "invalid.yaml")
		if err := os.WriteFile(configPath, []byte("invalid: yaml: content"), 0644); err != nil {
			t.Fatal(err)
		}

		if _, err := LoadFromPath(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("returns error for invalid config values", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "bad-values.yaml")
		content := `
logger:
  type: logback
`
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}

		_, err := LoadFromPath(configPath)
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestLoadAndSaveDefault(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logger.Type != "slf4j" {
		t.Error("expected defaults when no config dir exists")
	}

	path, err := SaveDefault(tmpDir)
	if err != nil {
		t.Fatalf("SaveDefault failed: %v", err)
	}
	if path != filepath.Join(tmpDir, ConfigDirName, ConfigFileName) {
		t.Errorf("unexpected config path %s", path)
	}

	if _, err := SaveDefault(tmpDir); err == nil {
		t.Error("expected error when config already exists")
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("loading saved defaults: %v", err)
	}
	if loaded.Generate.ToStringStyle != "json" || !loaded.Batch.SkipUnchanged {
		t.Errorf("saved defaults did not round-trip: %+v", loaded)
	}
}

func TestHistoryPath(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := HistoryPath(tmpDir)
	if err != nil {
		t.Fatalf("HistoryPath failed: %v", err)
	}
	want := filepath.Join(tmpDir, ConfigDirName, HistoryFileName)
	if path != want {
		t.Errorf("HistoryPath = %s, want %s", path, want)
	}
}
