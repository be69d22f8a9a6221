package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_MemoryDefaults(t *testing.T) {
	t.Setenv("STORE", "memory")
	t.Setenv("DB_URL", "")
	t.Setenv("TRIAL_DAYS", "")
	t.Setenv("DEFAULT_TIMEZONE", "")

	cfg, err := loadConfig()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, 7, cfg.TrialDays)
	assert.Equal(t, "UTC", cfg.DefaultLocation.String())
}

func TestLoadConfig_Rejects(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"STORE": "postgres", "DB_URL": ""}},
		{"unknown store", map[string]string{"STORE": "sqlite"}},
		{"bad timezone", map[string]string{"STORE": "memory", "DEFAULT_TIMEZONE": "Nowhere/Land"}},
		{"negative trial", map[string]string{"STORE": "memory", "TRIAL_DAYS": "-1"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := loadConfig()
			assert.Error(t, err)
		})
	}
}
