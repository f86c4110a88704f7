package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseModelPairs(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]string
	}{
		{"empty", "", map[string]string{}},
		{"single pair", "tiny=gpt-3.5-turbo-instruct",
			map[string]string{"tiny": "gpt-3.5-turbo-instruct"}},
		{"multiple pairs", "tiny=model-a,big=model-b",
			map[string]string{"tiny": "model-a", "big": "model-b"}},
		{"whitespace around pairs", " tiny=model-a , big=model-b ",
			map[string]string{"tiny": "model-a", "big": "model-b"}},
		{"broken pairs skipped", "tiny=model-a,broken,=model-b,name=",
			map[string]string{"tiny": "model-a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, parseModelPairs(tt.raw))
		})
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	require.Equal(t, "modelrunner.db", cfg.DatabaseFile)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, "json", cfg.LogFormat)
	require.Equal(t, 10*time.Second, cfg.ShutdownGracePeriod)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("MODELRUNNER_DATABASE_FILE", "/tmp/other.db")
	t.Setenv("PORT", "9090")
	t.Setenv("SHUTDOWN_GRACE_PERIOD", "30s")
	t.Setenv("MODELRUNNER_TEXT_MODELS", "tiny=upstream-tiny")
	t.Setenv("MODELRUNNER_AUDIO_MODELS", "whisper=upstream-whisper")

	cfg := LoadConfig()
	require.Equal(t, "/tmp/other.db", cfg.DatabaseFile)
	require.Equal(t, 9090, cfg.Port)
	require.Equal(t, 30*time.Second, cfg.ShutdownGracePeriod)
	require.Equal(t, map[string]string{"tiny": "upstream-tiny"}, cfg.TextModels)
	require.Equal(t, map[string]string{"whisper": "upstream-whisper"}, cfg.AudioModels)
}
