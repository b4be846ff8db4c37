package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/newwork/core-api/internal/flagx"
)

// JsonConfig is the intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, non-zero fields are copied into
// the runtime Config.
type JsonConfig struct {
	HTTPAddr    string `json:"http_addr"`
	DatabaseDSN string `json:"database_dsn"`

	AuthHMACSecret    string `json:"auth_hmac_secret"`
	AuthIssuer        string `json:"auth_issuer"`
	AuthExpirySeconds int    `json:"auth_expiry_seconds"`

	HFBaseURL  string `json:"hf_base_url"`
	HFModel    string `json:"hf_model"`
	HFAPIToken string `json:"hf_api_token"`

	HFRetryMaxAttempts    int     `json:"hf_retry_max_attempts"`
	HFRetryInitialDelayMs int     `json:"hf_retry_initial_delay_ms"`
	HFRetryMultiplier     float64 `json:"hf_retry_multiplier"`
	HFRetryMaxDelayMs     int     `json:"hf_retry_max_delay_ms"`
	HFRetryJitterMs       int     `json:"hf_retry_jitter_ms"`
	HFRetryOnStatus       []int   `json:"hf_retry_on_status"`

	SeedDemoData *bool `json:"seed_demo_data"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags. When no file is named, nothing is loaded.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	if c.HTTPAddr != "" {
		config.HTTPAddr = c.HTTPAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.AuthHMACSecret != "" {
		config.AuthHMACSecret = c.AuthHMACSecret
	}
	if c.AuthIssuer != "" {
		config.AuthIssuer = c.AuthIssuer
	}
	if c.AuthExpirySeconds != 0 {
		config.AuthExpirySeconds = c.AuthExpirySeconds
	}
	if c.HFBaseURL != "" {
		config.HFBaseURL = c.HFBaseURL
	}
	if c.HFModel != "" {
		config.HFModel = c.HFModel
	}
	if c.HFAPIToken != "" {
		config.HFAPIToken = c.HFAPIToken
	}
	if c.HFRetryMaxAttempts != 0 {
		config.HFRetryMaxAttempts = c.HFRetryMaxAttempts
	}
	if c.HFRetryInitialDelayMs != 0 {
		config.HFRetryInitialDelayMs = c.HFRetryInitialDelayMs
	}
	if c.HFRetryMultiplier != 0 {
		config.HFRetryMultiplier = c.HFRetryMultiplier
	}
	if c.HFRetryMaxDelayMs != 0 {
		config.HFRetryMaxDelayMs = c.HFRetryMaxDelayMs
	}
	if c.HFRetryJitterMs != 0 {
		config.HFRetryJitterMs = c.HFRetryJitterMs
	}
	if len(c.HFRetryOnStatus) > 0 {
		config.HFRetryOnStatus = c.HFRetryOnStatus
	}
	if c.SeedDemoData != nil {
		config.SeedDemoData = *c.SeedDemoData
	}
	return nil
}
