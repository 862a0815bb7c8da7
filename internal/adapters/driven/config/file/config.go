// Package file provides TOML-backed configuration with environment
// variable overrides.
package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"
)

// Environment variable names. Environment always wins over file values
// so deployments can inject credentials without touching config files.
const (
	EnvAPIKey              = "OPENAI_API_KEY"
	EnvBaseURL             = "OPENAI_BASE_URL"
	EnvClassifierModel     = "ICON_CLASSIFIER_MODEL"
	EnvRendererModel       = "ICON_RENDERER_MODEL"
	EnvClassifierInputUSD  = "ICON_CLASSIFIER_INPUT_USD_PER_1M"
	EnvClassifierOutputUSD = "ICON_CLASSIFIER_OUTPUT_USD_PER_1M"
	EnvExtractorInputUSD   = "ICON_EXTRACTOR_INPUT_USD_PER_1M"
	EnvExtractorOutputUSD  = "ICON_EXTRACTOR_OUTPUT_USD_PER_1M"
	EnvRendererUSDPerImage = "ICON_RENDERER_USD_PER_IMAGE"
)

// LLMConfig configures the language model backend.
type LLMConfig struct {
	// APIKey authenticates against the provider.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// ClassifierModel is the icon classification model.
	ClassifierModel string `toml:"classifier_model"`

	// RendererModel is the image generation model.
	RendererModel string `toml:"renderer_model"`

	// RequestsPerMinute paces outbound LLM calls.
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// CostConfig holds the USD cost rates for accounting.
type CostConfig struct {
	// ClassifierInputUSDPer1M is the classifier prompt-token rate.
	ClassifierInputUSDPer1M float64 `toml:"classifier_input_usd_per_1m"`

	// ClassifierOutputUSDPer1M is the classifier completion-token rate.
	ClassifierOutputUSDPer1M float64 `toml:"classifier_output_usd_per_1m"`

	// ExtractorInputUSDPer1M is the extraction prompt-token rate.
	ExtractorInputUSDPer1M float64 `toml:"extractor_input_usd_per_1m"`

	// ExtractorOutputUSDPer1M is the extraction completion-token rate.
	ExtractorOutputUSDPer1M float64 `toml:"extractor_output_usd_per_1m"`

	// RendererUSDPerImage is the flat per-image rendering cost.
	RendererUSDPerImage float64 `toml:"renderer_usd_per_image"`
}

// Config is the full application configuration.
type Config struct {
	// DataDir is where the SQLite database lives.
	DataDir string `toml:"data_dir"`

	// LLM configures the model backend.
	LLM LLMConfig `toml:"llm"`

	// Costs configures USD accounting rates.
	Costs CostConfig `toml:"costs"`
}

// DefaultPath returns the default config file location,
// ~/.arpgen/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".arpgen", "config.toml"), nil
}

// Load reads the config file at path, then applies environment variable
// overrides. A missing file is not an error; the zero config plus
// environment is a valid setup.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := toml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Fall through to environment-only configuration.
		default:
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return &cfg, nil
}

// applyEnv overrides file values from the environment.
func (c *Config) applyEnv() {
	envString(EnvAPIKey, &c.LLM.APIKey)
	envString(EnvBaseURL, &c.LLM.BaseURL)
	envString(EnvClassifierModel, &c.LLM.ClassifierModel)
	envString(EnvRendererModel, &c.LLM.RendererModel)

	envFloat(EnvClassifierInputUSD, &c.Costs.ClassifierInputUSDPer1M)
	envFloat(EnvClassifierOutputUSD, &c.Costs.ClassifierOutputUSDPer1M)
	envFloat(EnvExtractorInputUSD, &c.Costs.ExtractorInputUSDPer1M)
	envFloat(EnvExtractorOutputUSD, &c.Costs.ExtractorOutputUSDPer1M)
	envFloat(EnvRendererUSDPerImage, &c.Costs.RendererUSDPerImage)
}

func envString(name string, dst *string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func envFloat(name string, dst *float64) {
	v := os.Getenv(name)
	if v == "" {
		return
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return
	}
	*dst = f
}
