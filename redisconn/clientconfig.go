package redisconn

import (
	"errors"
	"sync"
	"time"

	"github.com/vortex-fintech/go-redisconn/logger"
)

const (
	// DefaultTimeout bounds individual commands when the caller does not
	// override it.
	DefaultTimeout = 60 * time.Second

	// DefaultShutdownTimeout bounds Close of the underlying client.
	DefaultShutdownTimeout = 100 * time.Millisecond
)

// ErrImmutableClientConfig is returned by factory setters when the factory
// was built from an already-built ClientConfig. Configure the builder before
// Build instead.
var ErrImmutableClientConfig = errors.New("redisconn: client configuration is immutable after Build")

// Metrics receives factory lifecycle observations. The prommetrics
// subpackage provides a Prometheus-backed implementation.
type Metrics interface {
	InitObserved(mode, result string, elapsed time.Duration)
	PingObserved(result string)
	CloseObserved(result string)
}

// ClientOptions are the connection-pool and retry knobs forwarded to the
// wrapped go-redis client.
type ClientOptions struct {
	PoolSize     int
	MinIdleConns int
	MaxRetries   int
	DialTimeout  time.Duration
	PoolTimeout  time.Duration
}

func DefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		PoolSize:    10,
		MaxRetries:  3,
		DialTimeout: 5 * time.Second,
	}
}

// ClientResources bundles process-wide collaborators shared across
// factories. The factory returns the exact handle it was given.
type ClientResources struct {
	Logger  logger.Interface
	Metrics Metrics
}

var (
	sharedResourcesOnce sync.Once
	sharedResources     *ClientResources
)

// SharedClientResources returns the lazily-built process default: a nop
// logger and no metrics.
func SharedClientResources() *ClientResources {
	sharedResourcesOnce.Do(func() {
		sharedResources = &ClientResources{Logger: logger.Nop()}
	})
	return sharedResources
}

// clientConfiguration is satisfied by the immutable ClientConfig and by the
// factory-owned mutable form used when no explicit configuration is given.
type clientConfiguration interface {
	UseSSL() bool
	VerifyPeer() bool
	StartTLS() bool
	Timeout() time.Duration
	ShutdownTimeout() time.Duration
	ClientOptions() *ClientOptions
	ClientResources() *ClientResources
}

// ClientConfig is an immutable bundle of connection-level options. Build it
// once via NewClientConfig; afterwards only the factory setters exist, and
// they fail with ErrImmutableClientConfig.
type ClientConfig struct {
	useSSL          bool
	verifyPeer      bool
	startTLS        bool
	timeout         time.Duration
	shutdownTimeout time.Duration
	options         *ClientOptions
	resources       *ClientResources
}

func (c *ClientConfig) UseSSL() bool                     { return c.useSSL }
func (c *ClientConfig) VerifyPeer() bool                 { return c.verifyPeer }
func (c *ClientConfig) StartTLS() bool                   { return c.startTLS }
func (c *ClientConfig) Timeout() time.Duration           { return c.timeout }
func (c *ClientConfig) ShutdownTimeout() time.Duration   { return c.shutdownTimeout }
func (c *ClientConfig) ClientOptions() *ClientOptions    { return c.options }
func (c *ClientConfig) ClientResources() *ClientResources { return c.resources }

// DefaultClientConfig is the builder's zero configuration: no SSL, peer
// verification on, 60s command timeout, 100ms shutdown timeout.
func DefaultClientConfig() *ClientConfig {
	return NewClientConfig().Build()
}

type ClientConfigBuilder struct {
	cfg ClientConfig
}

func NewClientConfig() *ClientConfigBuilder {
	return &ClientConfigBuilder{cfg: ClientConfig{
		verifyPeer:      true,
		timeout:         DefaultTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
	}}
}

func (b *ClientConfigBuilder) UseSSL() *ClientConfigBuilder {
	b.cfg.useSSL = true
	return b
}

func (b *ClientConfigBuilder) VerifyPeer(v bool) *ClientConfigBuilder {
	b.cfg.verifyPeer = v
	return b
}

func (b *ClientConfigBuilder) StartTLS() *ClientConfigBuilder {
	b.cfg.startTLS = true
	return b
}

func (b *ClientConfigBuilder) Timeout(d time.Duration) *ClientConfigBuilder {
	b.cfg.timeout = d
	return b
}

func (b *ClientConfigBuilder) ShutdownTimeout(d time.Duration) *ClientConfigBuilder {
	b.cfg.shutdownTimeout = d
	return b
}

func (b *ClientConfigBuilder) ClientOptions(o *ClientOptions) *ClientConfigBuilder {
	b.cfg.options = o
	return b
}

func (b *ClientConfigBuilder) ClientResources(r *ClientResources) *ClientConfigBuilder {
	b.cfg.resources = r
	return b
}

// Build freezes the configuration. The builder can keep being used without
// affecting already-built values.
func (b *ClientConfigBuilder) Build() *ClientConfig {
	cfg := b.cfg
	if cfg.options == nil {
		cfg.options = DefaultClientOptions()
	}
	if cfg.resources == nil {
		cfg.resources = SharedClientResources()
	}
	return &cfg
}

// mutableClientConfig backs factories built without an explicit
// ClientConfig; the factory setters mutate it in place.
type mutableClientConfig struct {
	ClientConfig
}

func newMutableClientConfig() *mutableClientConfig {
	return &mutableClientConfig{ClientConfig: ClientConfig{
		verifyPeer:      true,
		timeout:         DefaultTimeout,
		shutdownTimeout: DefaultShutdownTimeout,
		options:         DefaultClientOptions(),
		resources:       SharedClientResources(),
	}}
}
