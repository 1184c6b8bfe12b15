package asynclog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, validateConfig(&cfg))
	assert.Equal(t, "info", cfg.Level)
	assert.Positive(t, cfg.QueueCapacity)
}

func TestWithDefaults(t *testing.T) {
	cfg := Config{Dir: "/tmp/x"}.withDefaults()
	assert.Equal(t, "/tmp/x", cfg.Dir)
	assert.Equal(t, defaultSuffix, cfg.Suffix)
	assert.Equal(t, defaultMaxLinesPerFile, cfg.MaxLinesPerFile)
	assert.Equal(t, defaultShutdownTimeoutMS, cfg.ShutdownTimeoutMS)
	assert.Zero(t, cfg.QueueCapacity)
	require.NoError(t, validateConfig(&cfg))
}

func TestValidateConfig(t *testing.T) {
	require.Error(t, validateConfig(nil))

	tests := map[string]func(*Config){
		"negative capacity":     func(c *Config) { c.QueueCapacity = -1 },
		"zero lines":            func(c *Config) { c.MaxLinesPerFile = 0 },
		"tiny buffer":           func(c *Config) { c.InitialBufferSize = 8 },
		"suffix with slash":     func(c *Config) { c.Suffix = ".d/log" },
		"suffix with backslash": func(c *Config) { c.Suffix = `.d\log` },
		"empty dir":             func(c *Config) { c.Dir = "" },
		"bad level":             func(c *Config) { c.Level = "loud" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			err := validateConfig(&cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), errMsgConfigInvalid)
		})
	}
}

func TestValidateConfigAccepts(t *testing.T) {
	tests := map[string]func(*Config){
		"mixed case level": func(c *Config) { c.Level = "Warn" },
		"padded level":     func(c *Config) { c.Level = " ERROR " },
		"dash suffix":      func(c *Config) { c.Suffix = "-app.log" },
		"bare suffix":      func(c *Config) { c.Suffix = "log" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			require.NoError(t, validateConfig(&cfg))
		})
	}
}

func TestInitializeMixedCaseLevel(t *testing.T) {
	s, _ := newTestService(t, func(_ *Service, cfg *Config) {
		cfg.Level = "Warn"
		cfg.Suffix = "-app.log"
	})
	assert.Equal(t, WarnLevel, s.Level())
	assert.FileExists(t, todayFile(s))
}
