package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// parseEnv overlays Config with values from the environment. Unset variables
// leave the current value in place; unparseable ones fail loudly instead of
// being silently dropped.
func parseEnv(config *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}

	var err error
	setInt := func(key string, dst *int) {
		v, ok := os.LookupEnv(key)
		if !ok || err != nil {
			return
		}
		n, convErr := strconv.Atoi(v)
		if convErr != nil {
			err = fmt.Errorf("%s: %w", key, convErr)
			return
		}
		*dst = n
	}

	setString("HTTP_ADDR", &config.HTTPAddr)
	setString("DATABASE_DSN", &config.DatabaseDSN)
	setString("AUTH_HMAC_SECRET", &config.AuthHMACSecret)
	setString("AUTH_ISSUER", &config.AuthIssuer)
	setInt("AUTH_EXPIRY_SECONDS", &config.AuthExpirySeconds)
	setString("HF_BASE_URL", &config.HFBaseURL)
	setString("HF_MODEL", &config.HFModel)
	setString("HF_API_TOKEN", &config.HFAPIToken)
	setInt("HF_RETRY_MAX_ATTEMPTS", &config.HFRetryMaxAttempts)
	setInt("HF_RETRY_INITIAL_DELAY_MS", &config.HFRetryInitialDelayMs)
	setInt("HF_RETRY_MAX_DELAY_MS", &config.HFRetryMaxDelayMs)
	setInt("HF_RETRY_JITTER_MS", &config.HFRetryJitterMs)
	if err != nil {
		return err
	}

	if v, ok := os.LookupEnv("HF_RETRY_MULTIPLIER"); ok {
		m, convErr := strconv.ParseFloat(v, 64)
		if convErr != nil {
			return fmt.Errorf("HF_RETRY_MULTIPLIER: %w", convErr)
		}
		config.HFRetryMultiplier = m
	}

	if v, ok := os.LookupEnv("HF_RETRY_ON_STATUS"); ok {
		statuses, convErr := parseStatusList(v)
		if convErr != nil {
			return fmt.Errorf("HF_RETRY_ON_STATUS: %w", convErr)
		}
		config.HFRetryOnStatus = statuses
	}

	if v, ok := os.LookupEnv("SEED_DEMO_DATA"); ok {
		b, convErr := strconv.ParseBool(v)
		if convErr != nil {
			return fmt.Errorf("SEED_DEMO_DATA: %w", convErr)
		}
		config.SeedDemoData = b
	}

	return nil
}

// parseStatusList parses a comma-separated status list, e.g. "429,503".
func parseStatusList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}
