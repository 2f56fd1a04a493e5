package redisconn

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vortex-fintech/go-redisconn/logutil"
	"github.com/vortex-fintech/go-redisconn/validator"
)

// Duration accepts "250ms" / "5s" / "2h" style values in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("redisconn: invalid duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// FileConfig is the YAML document shape accepted by LoadConfig. Mode picks
// the topology variant; the remaining fields feed the matching
// configuration holder and the client configuration builder.
type FileConfig struct {
	Mode       string   `yaml:"mode" validate:"omitempty,oneof=standalone sentinel cluster"`
	Addr       string   `yaml:"addr" validate:"omitempty,hostname_port"`
	Addrs      []string `yaml:"addrs" validate:"omitempty,dive,hostname_port"`
	MasterName string   `yaml:"master_name"`
	Password   string   `yaml:"password"`
	DB         int      `yaml:"db" validate:"gte=0"`

	UseSSL     bool  `yaml:"use_ssl"`
	VerifyPeer *bool `yaml:"verify_peer"`
	StartTLS   bool  `yaml:"start_tls"`

	Timeout         Duration `yaml:"timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`

	PoolSize     int      `yaml:"pool_size" validate:"gte=0"`
	MinIdleConns int      `yaml:"min_idle_conns" validate:"gte=0"`
	MaxRetries   int      `yaml:"max_retries" validate:"gte=0"`
	DialTimeout  Duration `yaml:"dial_timeout"`
	PoolTimeout  Duration `yaml:"pool_timeout"`
}

// LoadConfig reads a YAML file and returns an uninitialized factory for it.
func LoadConfig(path string) (*ConnectionFactory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("redisconn: read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig builds a factory from a YAML document. The returned factory
// carries an immutable client configuration; call Init to construct the
// client.
func ParseConfig(data []byte) (*ConnectionFactory, error) {
	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("redisconn: parse config: %w", err)
	}
	return fc.Factory()
}

// Factory resolves the parsed document into a connection factory.
func (fc *FileConfig) Factory() (*ConnectionFactory, error) {
	if fields := validator.Validate(fc); fields != nil {
		// sensitive values never leave the library in error text
		return nil, fmt.Errorf("redisconn: invalid config: %v",
			logutil.SanitizeConfigErrors(fields, ""))
	}

	cc := fc.clientConfig()

	switch fc.Mode {
	case ModeSentinel:
		cfg := NewSentinelConfig(fc.MasterName, fc.Addrs...)
		cfg.SetPassword(fc.Password)
		if err := cfg.SetDatabase(fc.DB); err != nil {
			return nil, err
		}
		return NewSentinelFactory(cfg, cc), nil

	case ModeCluster:
		cfg := NewClusterConfig(fc.Addrs...)
		cfg.SetPassword(fc.Password)
		if err := cfg.SetDatabase(fc.DB); err != nil {
			return nil, err
		}
		return NewClusterFactory(cfg, cc), nil

	default: // standalone, also when mode is omitted
		cfg := DefaultStandaloneConfig()
		if fc.Addr != "" {
			host, port, err := splitAddr(fc.Addr)
			if err != nil {
				return nil, err
			}
			cfg = NewStandaloneConfig(host, port)
		}
		cfg.SetPassword(fc.Password)
		if err := cfg.SetDatabase(fc.DB); err != nil {
			return nil, err
		}
		return NewStandaloneFactory(cfg, cc), nil
	}
}

func (fc *FileConfig) clientConfig() *ClientConfig {
	b := NewClientConfig()

	if fc.UseSSL {
		b.UseSSL()
	}
	if fc.VerifyPeer != nil {
		b.VerifyPeer(*fc.VerifyPeer)
	}
	if fc.StartTLS {
		b.StartTLS()
	}
	if fc.Timeout > 0 {
		b.Timeout(time.Duration(fc.Timeout))
	}
	if fc.ShutdownTimeout > 0 {
		b.ShutdownTimeout(time.Duration(fc.ShutdownTimeout))
	}

	opts := DefaultClientOptions()
	if fc.PoolSize > 0 {
		opts.PoolSize = fc.PoolSize
	}
	if fc.MinIdleConns > 0 {
		opts.MinIdleConns = fc.MinIdleConns
	}
	if fc.MaxRetries > 0 {
		opts.MaxRetries = fc.MaxRetries
	}
	if fc.DialTimeout > 0 {
		opts.DialTimeout = time.Duration(fc.DialTimeout)
	}
	if fc.PoolTimeout > 0 {
		opts.PoolTimeout = time.Duration(fc.PoolTimeout)
	}
	b.ClientOptions(opts)

	return b.Build()
}
