package ctcp

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the per-connection tunables named in spec §6. Window sizes
// are expressed in segments (of MaxSegDataSize bytes each), matching
// spec §3/§4.4's "effective window sizes in bytes are window ×
// MAX_SEG_DATA_SIZE" wording literally.
type Config struct {
	RecvWindow     int `yaml:"recv_window"`
	SendWindow     int `yaml:"send_window"`
	RTTimeoutMS    int `yaml:"rt_timeout_ms"`
	TimerMS        int `yaml:"timer_ms"`
	MaxRetransmits int `yaml:"max_retransmits"`
}

// DefaultConfig returns reasonable defaults grounded on the values
// customarily used by the cTCP teaching lab this protocol is drawn from:
// a 5-segment window, a 500ms general-purpose retransmission timeout
// sampled every 10ms, and up to 5 retransmission attempts before giving
// up on a connection.
func DefaultConfig() Config {
	return Config{
		RecvWindow:     5,
		SendWindow:     5,
		RTTimeoutMS:    500,
		TimerMS:        10,
		MaxRetransmits: 5,
	}
}

// Validate checks the configuration against the constraints named in
// spec §6: window sizes and max_retransmits must be at least 1, timeouts
// must be positive, and the tick granularity must not exceed the
// retransmission timeout. recv_window is also capped so that the advertised
// window in bytes fits the 16-bit header field.
func (c Config) Validate() error {
	switch {
	case c.RecvWindow < 1:
		return fmt.Errorf("%w: recv_window must be >= 1", errInvalidConfig)
	case c.RecvWindow > 0xffff/MaxSegDataSize:
		return fmt.Errorf("%w: recv_window must be <= %d", errInvalidConfig, 0xffff/MaxSegDataSize)
	case c.SendWindow < 1:
		return fmt.Errorf("%w: send_window must be >= 1", errInvalidConfig)
	case c.RTTimeoutMS <= 0:
		return fmt.Errorf("%w: rt_timeout_ms must be > 0", errInvalidConfig)
	case c.TimerMS <= 0:
		return fmt.Errorf("%w: timer_ms must be > 0", errInvalidConfig)
	case c.TimerMS > c.RTTimeoutMS:
		return fmt.Errorf("%w: timer_ms must be <= rt_timeout_ms", errInvalidConfig)
	case c.MaxRetransmits < 1:
		return fmt.Errorf("%w: max_retransmits must be >= 1", errInvalidConfig)
	}
	return nil
}

// sendWindowBytes returns the effective send window in bytes.
func (c Config) sendWindowBytes() Size { return Size(c.SendWindow) * MaxSegDataSize }

// recvWindowBytes returns the effective receive window in bytes.
func (c Config) recvWindowBytes() Size { return Size(c.RecvWindow) * MaxSegDataSize }

// LoadConfigFile reads a YAML configuration file, keeping DefaultConfig's
// value for any field the file does not set, then validates the result (a
// field explicitly set to 0 in the file stays 0 and fails validation). This
// mirrors the config-file-with-defaults pattern used by cmd/ctcpdemo.
func LoadConfigFile(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("ctcp: parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
