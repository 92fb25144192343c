// Package config loads the immutable run configuration. Settings live in a
// YAML file (written with defaults on first run); the API key comes from the
// environment and is never persisted.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/rawcsav/Hinterview/internal/chunk"
)

// Config is constructed once at startup and passed by reference into each
// component; there is no ambient settings lookup.
type Config struct {
	FolderPath        string  `yaml:"folder_path"`
	Hotkey            string  `yaml:"hotkey"`
	Model             string  `yaml:"gpt_model"`
	SystemPrompt      string  `yaml:"system_prompt"`
	Temperature       float64 `yaml:"temperature"`
	TopP              float64 `yaml:"top_p"`
	MaxTokens         int     `yaml:"max_tokens"`
	TopN              int     `yaml:"top_n"`
	SectionTokens     int     `yaml:"section_tokens"`
	EmbedWorkers      int     `yaml:"embed_workers"`
	Structured        bool    `yaml:"structured"`
	ResumeTitle       string  `yaml:"resume_title"`
	JobDescTitle      string  `yaml:"job_desc_title"`
	TranscriptionHint string  `yaml:"transcription_hint"`

	// APIKey is resolved from the environment, not the file.
	APIKey string `yaml:"-"`
}

// Default returns the configuration written on first run.
func Default() *Config {
	return &Config{
		Hotkey: "alt_r",
		Model:  "gpt-4",
		SystemPrompt: "You are a knowledgeable job interview assistant that uses information " +
			"from provided textual excerpts to provide impressive, but concise answers to " +
			"interview questions.",
		Temperature:   0.5,
		TopP:          1.0,
		MaxTokens:     1000,
		TopN:          3,
		SectionTokens: chunk.DefaultSectionTokens,
		EmbedWorkers:  6,
		Structured:    true,
	}
}

// Load reads the config at path. A missing file writes and returns the
// defaults so the user has something to edit.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := Default()
			if err := Save(path, cfg); err != nil {
				return nil, fmt.Errorf("write default config: %w", err)
			}
			cfg.APIKey = os.Getenv("OPENAI_API_KEY")
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	return cfg, nil
}

// Save writes cfg to path, creating directories as needed.
func Save(path string, cfg *Config) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the settings a full run needs.
func (c *Config) Validate() error {
	if c.FolderPath == "" {
		return errors.New("folder_path is not set")
	}
	if c.APIKey == "" {
		return errors.New("OPENAI_API_KEY is not set")
	}
	if c.Structured && (c.ResumeTitle == "" || c.JobDescTitle == "") {
		return errors.New("structured mode requires resume_title and job_desc_title")
	}
	return nil
}

// DocumentKinds maps document titles (base filenames) to their categories
// for structured retrieval.
func (c *Config) DocumentKinds() map[string]chunk.Kind {
	kinds := make(map[string]chunk.Kind, 2)
	if c.ResumeTitle != "" {
		kinds[c.ResumeTitle] = chunk.KindResume
	}
	if c.JobDescTitle != "" {
		kinds[c.JobDescTitle] = chunk.KindJobDescription
	}
	return kinds
}
