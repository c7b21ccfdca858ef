package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Transcribe TranscribeConfig `yaml:"transcribe"`
	Deepgram   DeepgramConfig   `yaml:"deepgram"`
	Polish     PolishConfig     `yaml:"polish"`
	Record     RecordConfig     `yaml:"record"`
	Metrics    MetricsConfig    `yaml:"metrics"`
	Log        LogConfig        `yaml:"log"`
}

type TranscribeConfig struct {
	InputDir   string   `yaml:"input_dir"`
	OutputDir  string   `yaml:"output_dir"`
	Prefix     string   `yaml:"prefix"`
	BatchSize  int      `yaml:"batch_size"`
	GroupIndex int      `yaml:"group_index"`
	NoGrouping bool     `yaml:"no_grouping"`
	GroupKeys  []string `yaml:"group_keys"`
	Extensions []string `yaml:"extensions"`
}

type DeepgramConfig struct {
	APIKey      string `yaml:"api_key"`
	Model       string `yaml:"model"`
	SmartFormat bool   `yaml:"smart_format"`
	Timeout     string `yaml:"timeout"`
}

type PolishConfig struct {
	Enabled   bool   `yaml:"enabled"`
	URL       string `yaml:"url"`
	Model     string `yaml:"model"`
	OutputDir string `yaml:"output_dir"`
	Workers   int    `yaml:"workers"`
	Timeout   string `yaml:"timeout"`
}

type RecordConfig struct {
	SampleRate int `yaml:"sample_rate"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from a YAML file, expanding ${VAR} references
// from the environment before parsing. A missing file is not an error: the
// defaults plus the environment are enough to run.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyEnv()

	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Transcribe: TranscribeConfig{
			InputDir:   "./in",
			OutputDir:  "./out",
			Prefix:     "2025080",
			BatchSize:  4,
			GroupIndex: 6,
			GroupKeys:  []string{"0", "1", "2", "3"},
		},
		Deepgram: DeepgramConfig{
			Model:       "nova-2",
			SmartFormat: true,
			Timeout:     "60s",
		},
		Polish: PolishConfig{
			URL:       "http://localhost:19190/api/generate",
			Model:     "llama3",
			OutputDir: "./polished",
			Timeout:   "5m",
		},
		Record: RecordConfig{
			SampleRate: 16000,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func (c *Config) applyEnv() {
	if c.Deepgram.APIKey == "" {
		c.Deepgram.APIKey = os.Getenv("DEEPGRAM_API_KEY")
	}
}
