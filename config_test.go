package giftgate

import (
	"context"
	"os"
	"path"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigValidate(t *testing.T) {
	type testCase struct {
		name      string
		config    *Config
		expectErr bool
	}

	valid := func(mutate func(*Config)) *Config {
		config := DefaultConfig()
		config.Gate.ChannelID = "C1"
		config.Gate.OriginatorRole = "origin"
		config.Gate.ApproverRole = "decide"
		if mutate != nil {
			mutate(config)
		}
		return config
	}

	testCases := []testCase{
		{name: "nil config", config: nil},
		{name: "complete", config: valid(nil)},
		{name: "missing channel", config: valid(func(c *Config) { c.Gate.ChannelID = "" }), expectErr: true},
		{name: "missing originator role", config: valid(func(c *Config) { c.Gate.OriginatorRole = "" }), expectErr: true},
		{name: "missing approver role", config: valid(func(c *Config) { c.Gate.ApproverRole = "" }), expectErr: true},
		{name: "zero inline limit", config: valid(func(c *Config) { c.Inspect.InlineLimit = 0 }), expectErr: true},
		{name: "expiry enabled without ttl", config: valid(func(c *Config) { c.Expiry.Enabled = true }), expectErr: true},
		{name: "expiry enabled", config: valid(func(c *Config) {
			c.Expiry.Enabled = true
			c.Expiry.TTL = time.Minute
		})},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.config.Validate()
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestLoadConfig(t *testing.T) {
	ctx := context.Background()
	URL := path.Join(t.TempDir(), "config.yaml")
	document := `
gate:
  channel: C1
  originatorRole: origin
  approverRole: decide
inspect:
  inlineLimit: 500
`
	assert.NoError(t, os.WriteFile(URL, []byte(document), 0o644))

	config, err := LoadConfig(ctx, URL)
	assert.NoError(t, err)
	assert.Equal(t, "C1", config.Gate.ChannelID)
	assert.Equal(t, "origin", config.Gate.OriginatorRole)
	assert.Equal(t, "decide", config.Gate.ApproverRole)
	assert.Equal(t, 500, config.Inspect.InlineLimit)
	assert.False(t, config.Expiry.Enabled)
}

func TestLoadConfigDefaultsInlineLimit(t *testing.T) {
	ctx := context.Background()
	URL := path.Join(t.TempDir(), "config.yaml")
	document := `
gate:
  channel: C1
  originatorRole: origin
  approverRole: decide
`
	assert.NoError(t, os.WriteFile(URL, []byte(document), 0o644))

	config, err := LoadConfig(ctx, URL)
	assert.NoError(t, err)
	assert.Equal(t, 1900, config.Inspect.InlineLimit)
}

func TestLoadConfigErrors(t *testing.T) {
	ctx := context.Background()

	_, err := LoadConfig(ctx, path.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	URL := path.Join(t.TempDir(), "config.yaml")
	assert.NoError(t, os.WriteFile(URL, []byte("gate:\n  channel: C1\n"), 0o644))
	_, err = LoadConfig(ctx, URL)
	assert.Error(t, err)
}
