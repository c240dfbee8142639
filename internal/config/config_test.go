package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name              string
		configContent     string
		env               map[string]string
		wantErr           bool
		wantErrorContains []string
		assertConfig      func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid config file with custom values",
			configContent: `server:
  port: 9090
database:
  host: db.internal
  database: terminology
  username: svc
icd:
  base_url: https://id.who.int/icd
  api_version: v2
namaste:
  system_uri: http://namaste.gov.in/codes
  version: "2.1"
cache:
  entity_capacity: 64
`,
			assertConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 9090, cfg.Server.Port)
				assert.Equal(t, "db.internal", cfg.Database.Host)
				assert.Equal(t, "terminology", cfg.Database.Database)
				assert.Equal(t, "2.1", cfg.Namaste.Version)
				assert.Equal(t, 64, cfg.Cache.EntityCapacity)
				// untouched sections keep their defaults
				assert.Equal(t, 256, cfg.Cache.SearchCapacity)
				assert.Equal(t, "release/11/2023-01/mms", cfg.Icd.SearchRelease)
				assert.Equal(t, "http://id.who.int/icd/release/11/mms", cfg.Icd.SystemURI)
				assert.False(t, cfg.Audit.Enabled)
			},
		},
		{
			name:          "defaults only",
			configContent: "",
			assertConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, 8080, cfg.Server.Port)
				assert.Equal(t, 3306, cfg.Database.Port)
				assert.Equal(t, "https://icdaccessmanagement.who.int/connect/token", cfg.Icd.TokenURL)
				assert.Equal(t, 43200, cfg.Cache.TTLSeconds)
			},
		},
		{
			name:          "credentials bound from environment",
			configContent: "",
			env: map[string]string{
				"ICD_CLIENT_ID":     "client-abc",
				"ICD_CLIENT_SECRET": "s3cret",
				"DB_PASSWORD":       "dbpass",
			},
			assertConfig: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "client-abc", cfg.Icd.ClientID)
				assert.Equal(t, "s3cret", cfg.Icd.ClientSecret)
				assert.Equal(t, "dbpass", cfg.Database.Password)
			},
		},
		{
			name: "invalid YAML format",
			configContent: `server:
  invalid yaml format here [[[
`,
			wantErr: true,
			wantErrorContains: []string{
				"configuration file found but could not be read",
			},
		},
		{
			name: "validation failure on malformed URL",
			configContent: `icd:
  base_url: not-a-url
`,
			wantErr: true,
			wantErrorContains: []string{
				"invalid configuration",
				"base_url",
			},
		},
		{
			name: "validation failure on non-positive cache capacity",
			configContent: `cache:
  entity_capacity: 0
`,
			wantErr: true,
			wantErrorContains: []string{
				"entity_capacity",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for key, value := range tt.env {
				t.Setenv(key, value)
			}

			configFile := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(configFile, []byte(tt.configContent), 0o600))

			loader, err := NewConfigLoader(configFile)
			require.NoError(t, err)

			cfg, err := loader.Load()
			if tt.wantErr {
				require.Error(t, err)
				for _, want := range tt.wantErrorContains {
					assert.Contains(t, err.Error(), want)
				}
				return
			}
			require.NoError(t, err)
			tt.assertConfig(t, cfg)
		})
	}
}
