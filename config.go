package giftgate

import (
	"context"
	"fmt"
	"time"

	"github.com/viant/afs"
	"github.com/vrctcg/giftgate/service/auth"
	"github.com/vrctcg/giftgate/service/dispatcher"
	"gopkg.in/yaml.v3"
)

// Config is a serialisable representation of the gate configuration. It can
// be populated from JSON, YAML, environment variables, etc. The zero-value is
// useful - nested fields inherit their package defaults.
type Config struct {
	Gate    auth.Config   `json:"gate" yaml:"gate"`
	Inspect InspectConfig `json:"inspect" yaml:"inspect"`
	Expiry  ExpiryConfig  `json:"expiry" yaml:"expiry"`
}

type InspectConfig struct {
	// InlineLimit is the largest ledger report delivered as inline text;
	// larger reports become file attachments.
	InlineLimit int `json:"inlineLimit" yaml:"inlineLimit"`
}

// ExpiryConfig controls the optional pending-proposal sweeper. It is off by
// default: the base design keeps proposals until they are decided or the
// process restarts, a deliberate scope decision rather than an omission.
type ExpiryConfig struct {
	Enabled       bool          `json:"enabled" yaml:"enabled"`
	TTL           time.Duration `json:"ttl" yaml:"ttl"`
	SweepInterval time.Duration `json:"sweepInterval" yaml:"sweepInterval"`
}

// DefaultConfig returns a Config populated with package defaults.
func DefaultConfig() *Config {
	return &Config{
		Inspect: InspectConfig{InlineLimit: dispatcher.DefaultInlineLimit},
		Expiry:  ExpiryConfig{SweepInterval: time.Minute},
	}
}

// Validate returns an error describing invalid settings or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Gate.ChannelID == "" {
		return fmt.Errorf("gate.channel is required")
	}
	if c.Gate.OriginatorRole == "" {
		return fmt.Errorf("gate.originatorRole is required")
	}
	if c.Gate.ApproverRole == "" {
		return fmt.Errorf("gate.approverRole is required")
	}
	if c.Inspect.InlineLimit <= 0 {
		return fmt.Errorf("inspect.inlineLimit must be > 0")
	}
	if c.Expiry.Enabled {
		if c.Expiry.TTL <= 0 {
			return fmt.Errorf("expiry.ttl must be > 0 when expiry is enabled")
		}
		if c.Expiry.SweepInterval <= 0 {
			return fmt.Errorf("expiry.sweepInterval must be > 0 when expiry is enabled")
		}
	}
	return nil
}

// LoadConfig reads a YAML config document from the given afs URL (file://,
// mem://, s3:// ...), applies defaults and validates it.
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	fs := afs.New()
	data, err := fs.DownloadWithURL(ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", URL, err)
	}
	config := DefaultConfig()
	if err = yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", URL, err)
	}
	if config.Inspect.InlineLimit == 0 {
		config.Inspect.InlineLimit = dispatcher.DefaultInlineLimit
	}
	if err = config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}
