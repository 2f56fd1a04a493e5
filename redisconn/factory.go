package redisconn

import (
	"context"
	"crypto/tls"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vortex-fintech/go-redisconn/logger"
	"github.com/vortex-fintech/go-redisconn/logutil"
	"github.com/vortex-fintech/go-redisconn/retry"
)

// Mode names the topology a factory resolved to. Used for logging and
// metric labels.
type Mode = string

const (
	ModeStandalone Mode = "standalone"
	ModeSentinel   Mode = "sentinel"
	ModeCluster    Mode = "cluster"
)

var (
	errNotInitialized  = errors.New("redisconn: factory is not initialized, call Init first")
	errShutdownTimeout = errors.New("redisconn: client close exceeded shutdown timeout")
)

// Client constructors, swappable in tests to capture the options the
// factory derived without touching a live server.
var (
	NewStandaloneClient = func(opt *redis.Options) *redis.Client {
		return redis.NewClient(opt)
	}
	NewFailoverClient = func(opt *redis.FailoverOptions) *redis.Client {
		return redis.NewFailoverClient(opt)
	}
	NewClusterClient = func(opt *redis.ClusterOptions) *redis.ClusterClient {
		return redis.NewClusterClient(opt)
	}
)

// ConnectionFactory translates one topology configuration plus a client
// configuration into a single go-redis client. It holds the caller's
// configuration object by reference: password and database writes through
// either side are visible through the other.
//
// The factory resolves its configuration once; it is not meant to be
// initialized from multiple goroutines.
type ConnectionFactory struct {
	standalone *StandaloneConfig // never nil, placeholder when another variant is active
	sentinel   *SentinelConfig
	cluster    *ClusterConfig
	clientCfg  clientConfiguration

	client      redis.UniversalClient
	initialURIs []URI
}

// NewConnectionFactory returns a factory for localhost:6379 with mutable
// client settings.
func NewConnectionFactory() *ConnectionFactory {
	return NewStandaloneFactory(DefaultStandaloneConfig(), nil)
}

// NewStandaloneFactory builds a factory around a standalone configuration.
// A nil clientCfg leaves the client settings mutable through the factory
// setters; an explicit one freezes them.
func NewStandaloneFactory(cfg *StandaloneConfig, clientCfg *ClientConfig) *ConnectionFactory {
	if cfg == nil {
		cfg = DefaultStandaloneConfig()
	}
	return &ConnectionFactory{
		standalone: cfg,
		clientCfg:  pickClientConfig(clientCfg),
	}
}

func NewSentinelFactory(cfg *SentinelConfig, clientCfg *ClientConfig) *ConnectionFactory {
	return &ConnectionFactory{
		standalone: DefaultStandaloneConfig(),
		sentinel:   cfg,
		clientCfg:  pickClientConfig(clientCfg),
	}
}

func NewClusterFactory(cfg *ClusterConfig, clientCfg *ClientConfig) *ConnectionFactory {
	return &ConnectionFactory{
		standalone: DefaultStandaloneConfig(),
		cluster:    cfg,
		clientCfg:  pickClientConfig(clientCfg),
	}
}

func pickClientConfig(cc *ClientConfig) clientConfiguration {
	if cc == nil {
		return newMutableClientConfig()
	}
	return cc
}

// Mode reports which topology variant is active.
func (f *ConnectionFactory) Mode() Mode {
	switch {
	case f.cluster != nil:
		return ModeCluster
	case f.sentinel != nil:
		return ModeSentinel
	default:
		return ModeStandalone
	}
}

func (f *ConnectionFactory) activeConfig() topologyConfig {
	switch {
	case f.cluster != nil:
		return f.cluster
	case f.sentinel != nil:
		return f.sentinel
	default:
		return f.standalone
	}
}

// StandaloneConfig returns the standalone configuration. It is never nil:
// when a sentinel or cluster variant is active this is a default-valued
// placeholder. SentinelConfig and ClusterConfig return nil unless active.
func (f *ConnectionFactory) StandaloneConfig() *StandaloneConfig { return f.standalone }
func (f *ConnectionFactory) SentinelConfig() *SentinelConfig     { return f.sentinel }
func (f *ConnectionFactory) ClusterConfig() *ClusterConfig       { return f.cluster }

// ClientConfig returns the active client configuration. For factories built
// with an explicit configuration this is the exact value supplied.
func (f *ConnectionFactory) ClientConfig() *ClientConfig {
	if m, ok := f.clientCfg.(*mutableClientConfig); ok {
		return &m.ClientConfig
	}
	return f.clientCfg.(*ClientConfig)
}

// Password and Database proxy to whichever topology configuration is
// active; writes are visible through the caller's configuration object.

func (f *ConnectionFactory) Password() string     { return f.activeConfig().Password() }
func (f *ConnectionFactory) SetPassword(p string) { f.activeConfig().SetPassword(p) }
func (f *ConnectionFactory) Database() int        { return f.activeConfig().Database() }

func (f *ConnectionFactory) SetDatabase(db int) error {
	return f.activeConfig().SetDatabase(db)
}

func (f *ConnectionFactory) UseSSL() bool                      { return f.clientCfg.UseSSL() }
func (f *ConnectionFactory) VerifyPeer() bool                  { return f.clientCfg.VerifyPeer() }
func (f *ConnectionFactory) StartTLS() bool                    { return f.clientCfg.StartTLS() }
func (f *ConnectionFactory) Timeout() time.Duration            { return f.clientCfg.Timeout() }
func (f *ConnectionFactory) ShutdownTimeout() time.Duration    { return f.clientCfg.ShutdownTimeout() }
func (f *ConnectionFactory) ClientOptions() *ClientOptions     { return f.clientCfg.ClientOptions() }
func (f *ConnectionFactory) ClientResources() *ClientResources { return f.clientCfg.ClientResources() }

func (f *ConnectionFactory) mutable() (*mutableClientConfig, error) {
	m, ok := f.clientCfg.(*mutableClientConfig)
	if !ok {
		return nil, ErrImmutableClientConfig
	}
	return m, nil
}

func (f *ConnectionFactory) SetUseSSL(v bool) error {
	m, err := f.mutable()
	if err != nil {
		return err
	}
	m.useSSL = v
	return nil
}

func (f *ConnectionFactory) SetVerifyPeer(v bool) error {
	m, err := f.mutable()
	if err != nil {
		return err
	}
	m.verifyPeer = v
	return nil
}

func (f *ConnectionFactory) SetStartTLS(v bool) error {
	m, err := f.mutable()
	if err != nil {
		return err
	}
	m.startTLS = v
	return nil
}

func (f *ConnectionFactory) SetTimeout(d time.Duration) error {
	m, err := f.mutable()
	if err != nil {
		return err
	}
	m.timeout = d
	return nil
}

func (f *ConnectionFactory) SetShutdownTimeout(d time.Duration) error {
	m, err := f.mutable()
	if err != nil {
		return err
	}
	m.shutdownTimeout = d
	return nil
}

func (f *ConnectionFactory) SetClientResources(r *ClientResources) error {
	m, err := f.mutable()
	if err != nil {
		return err
	}
	m.resources = r
	return nil
}

// Init validates the active configuration, derives the seed URIs and
// constructs exactly one client: cluster config present -> cluster client,
// sentinel config present -> failover client, otherwise standalone client.
// Init performs no I/O; a second call keeps the first client.
func (f *ConnectionFactory) Init() error {
	if f.client != nil {
		return nil
	}

	start := time.Now()

	var err error
	switch {
	case f.cluster != nil:
		err = f.initCluster()
	case f.sentinel != nil:
		err = f.initSentinel()
	default:
		err = f.initStandalone()
	}

	f.observeInit(time.Since(start), err)

	if err != nil {
		f.log().Errorw("redis client init failed", "mode", f.Mode(), "error", err)
		return err
	}

	f.log().Infow("redis client initialized",
		"mode", f.Mode(),
		"uris", logutil.RedactURIs(uriStrings(f.initialURIs)),
	)
	return nil
}

// Client returns the client built by Init.
func (f *ConnectionFactory) Client() redis.UniversalClient {
	return f.client
}

// InitialURIs returns the seed URIs the client was constructed from, in
// configuration order.
func (f *ConnectionFactory) InitialURIs() []URI {
	out := make([]URI, len(f.initialURIs))
	copy(out, f.initialURIs)
	return out
}

// Ping probes the initialized client with a short bounded retry.
func (f *ConnectionFactory) Ping(ctx context.Context) error {
	if f.client == nil {
		return errNotInitialized
	}
	err := retry.Fast(ctx, func() error {
		return f.client.Ping(ctx).Err()
	})
	f.observePing(err)
	if err != nil {
		f.log().Warnw("redis ping failed", "mode", f.Mode(), "error", err)
	}
	return err
}

// Close shuts the client down, bounded by the configured shutdown timeout.
// Closing an uninitialized factory is a no-op.
func (f *ConnectionFactory) Close() error {
	if f.client == nil {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- f.client.Close() }()

	timer := time.NewTimer(f.ShutdownTimeout())
	defer timer.Stop()

	var err error
	select {
	case err = <-done:
	case <-timer.C:
		err = errShutdownTimeout
	}

	f.observeClose(err)
	if err != nil {
		f.log().Warnw("redis client close failed", "mode", f.Mode(), "error", err)
	} else {
		f.log().Debugw("redis client closed", "mode", f.Mode())
	}
	f.client = nil
	f.initialURIs = nil
	return err
}

func (f *ConnectionFactory) initStandalone() error {
	cfg := f.standalone
	if err := cfg.validate(); err != nil {
		return err
	}

	u := f.seedURI(cfg.HostName, cfg.Port, cfg)
	opts := f.ClientOptions()

	f.client = NewStandaloneClient(&redis.Options{
		Addr:         u.Addr(),
		Password:     cfg.Password(),
		DB:           cfg.Database(),
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		MaxRetries:   opts.MaxRetries,
		DialTimeout:  opts.DialTimeout,
		PoolTimeout:  opts.PoolTimeout,
		ReadTimeout:  f.Timeout(),
		WriteTimeout: f.Timeout(),
		TLSConfig:    f.tlsConfig(),
	})
	f.initialURIs = []URI{u}
	return nil
}

func (f *ConnectionFactory) initSentinel() error {
	cfg := f.sentinel
	if err := cfg.validate(); err != nil {
		return err
	}

	u := URI{
		Database:   cfg.Database(),
		Password:   cfg.Password(),
		SSL:        f.UseSSL(),
		StartTLS:   f.StartTLS(),
		VerifyPeer: f.VerifyPeer(),
		Timeout:    f.Timeout(),
		MasterName: cfg.Master,
		Sentinels:  cfg.Sentinels(),
	}
	opts := f.ClientOptions()

	f.client = NewFailoverClient(&redis.FailoverOptions{
		MasterName:    cfg.Master,
		SentinelAddrs: cfg.Sentinels(),
		Password:      cfg.Password(),
		DB:            cfg.Database(),
		PoolSize:      opts.PoolSize,
		MinIdleConns:  opts.MinIdleConns,
		MaxRetries:    opts.MaxRetries,
		DialTimeout:   opts.DialTimeout,
		PoolTimeout:   opts.PoolTimeout,
		ReadTimeout:   f.Timeout(),
		WriteTimeout:  f.Timeout(),
		TLSConfig:     f.tlsConfig(),
	})
	f.initialURIs = []URI{u}
	return nil
}

func (f *ConnectionFactory) initCluster() error {
	cfg := f.cluster
	if err := cfg.validate(); err != nil {
		return err
	}

	nodes := cfg.Nodes()
	uris := make([]URI, 0, len(nodes))
	for _, addr := range nodes {
		host, port, err := splitAddr(addr)
		if err != nil {
			return err
		}
		uris = append(uris, f.seedURI(host, port, cfg))
	}
	opts := f.ClientOptions()

	f.client = NewClusterClient(&redis.ClusterOptions{
		Addrs:        nodes,
		Password:     cfg.Password(),
		MaxRedirects: cfg.MaxRedirects,
		PoolSize:     opts.PoolSize,
		MinIdleConns: opts.MinIdleConns,
		MaxRetries:   opts.MaxRetries,
		DialTimeout:  opts.DialTimeout,
		PoolTimeout:  opts.PoolTimeout,
		ReadTimeout:  f.Timeout(),
		WriteTimeout: f.Timeout(),
		TLSConfig:    f.tlsConfig(),
	})
	f.initialURIs = uris
	return nil
}

// seedURI carries the shared command timeout, password and TLS flags onto a
// per-endpoint URI.
func (f *ConnectionFactory) seedURI(host string, port int, tc topologyConfig) URI {
	return URI{
		Host:       host,
		Port:       port,
		Database:   tc.Database(),
		Password:   tc.Password(),
		SSL:        f.UseSSL(),
		StartTLS:   f.StartTLS(),
		VerifyPeer: f.VerifyPeer(),
		Timeout:    f.Timeout(),
	}
}

func (f *ConnectionFactory) tlsConfig() *tls.Config {
	if !f.UseSSL() && !f.StartTLS() {
		return nil
	}
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: !f.VerifyPeer(),
	}
}

func (f *ConnectionFactory) log() logger.Interface {
	if r := f.ClientResources(); r != nil && r.Logger != nil {
		return r.Logger
	}
	return logger.Nop()
}

func (f *ConnectionFactory) metrics() Metrics {
	if r := f.ClientResources(); r != nil {
		return r.Metrics
	}
	return nil
}

func resultLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func (f *ConnectionFactory) observeInit(elapsed time.Duration, err error) {
	if m := f.metrics(); m != nil {
		m.InitObserved(f.Mode(), resultLabel(err), elapsed)
	}
}

func (f *ConnectionFactory) observePing(err error) {
	if m := f.metrics(); m != nil {
		m.PingObserved(resultLabel(err))
	}
}

func (f *ConnectionFactory) observeClose(err error) {
	if m := f.metrics(); m != nil {
		m.CloseObserved(resultLabel(err))
	}
}
