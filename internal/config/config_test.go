package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:          "0.0.0.0",
			Port:          8000,
			Mode:          "release",
			MaxUploadSize: 10 << 20,
		},
		AI: AIConfig{
			Provider: "openai",
			APIKey:   "sk-test",
			Model:    "gpt-4o",
		},
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{
			name:   "valid config",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.AI.APIKey = "" },
			wantErr: "upstream API key is required",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "invalid server port",
		},
		{
			name:    "unknown mode",
			mutate:  func(c *Config) { c.Server.Mode = "prod" },
			wantErr: "invalid server mode",
		},
		{
			name:    "zero upload size",
			mutate:  func(c *Config) { c.Server.MaxUploadSize = 0 },
			wantErr: "invalid max upload size",
		},
		{
			name:    "unsupported storage",
			mutate:  func(c *Config) { c.Storage.Type = "oss" },
			wantErr: "unsupported storage type",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
