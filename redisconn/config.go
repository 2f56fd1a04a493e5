package redisconn

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
)

const (
	DefaultHost = "localhost"
	DefaultPort = 6379
)

var (
	errInvalidDB          = errors.New("redisconn: database index must be >= 0")
	errHostRequired       = errors.New("redisconn: host is required")
	errInvalidPort        = errors.New("redisconn: port must be in 1..65535")
	errMasterRequired     = errors.New("redisconn: sentinel configuration requires a master name")
	errNoSentinels        = errors.New("redisconn: sentinel configuration requires at least one sentinel address")
	errNoClusterNodes     = errors.New("redisconn: cluster configuration requires at least one node")
	errInvalidNodeAddress = errors.New("redisconn: invalid host:port address")
)

// topologyConfig is the closed set of topology variants the factory reads
// its password and database index through. The factory shares the caller's
// configuration object, it never copies it.
type topologyConfig interface {
	Password() string
	SetPassword(string)
	Database() int
	SetDatabase(int) error
}

// StandaloneConfig describes a single Redis endpoint.
type StandaloneConfig struct {
	HostName string
	Port     int

	password string
	database int
}

func NewStandaloneConfig(host string, port int) *StandaloneConfig {
	return &StandaloneConfig{HostName: host, Port: port}
}

func DefaultStandaloneConfig() *StandaloneConfig {
	return NewStandaloneConfig(DefaultHost, DefaultPort)
}

func (c *StandaloneConfig) Password() string     { return c.password }
func (c *StandaloneConfig) SetPassword(p string) { c.password = p }
func (c *StandaloneConfig) Database() int        { return c.database }

func (c *StandaloneConfig) SetDatabase(db int) error {
	if db < 0 {
		return errInvalidDB
	}
	c.database = db
	return nil
}

func (c *StandaloneConfig) Addr() string {
	return net.JoinHostPort(c.HostName, strconv.Itoa(c.Port))
}

func (c *StandaloneConfig) validate() error {
	if strings.TrimSpace(c.HostName) == "" {
		return errHostRequired
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errInvalidPort
	}
	return nil
}

// SentinelConfig describes a sentinel-monitored master and the sentinel
// endpoints to discover it through. Sentinel addresses form a set:
// duplicates collapse, first-seen order is retained.
type SentinelConfig struct {
	Master string

	sentinels []string
	password  string
	database  int
}

func NewSentinelConfig(master string, sentinels ...string) *SentinelConfig {
	c := &SentinelConfig{Master: master}
	for _, s := range sentinels {
		c.AddSentinel(s)
	}
	return c
}

func (c *SentinelConfig) AddSentinel(addr string) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	for _, s := range c.sentinels {
		if s == addr {
			return
		}
	}
	c.sentinels = append(c.sentinels, addr)
}

func (c *SentinelConfig) Sentinels() []string {
	out := make([]string, len(c.sentinels))
	copy(out, c.sentinels)
	return out
}

func (c *SentinelConfig) Password() string     { return c.password }
func (c *SentinelConfig) SetPassword(p string) { c.password = p }
func (c *SentinelConfig) Database() int        { return c.database }

func (c *SentinelConfig) SetDatabase(db int) error {
	if db < 0 {
		return errInvalidDB
	}
	c.database = db
	return nil
}

func (c *SentinelConfig) validate() error {
	if strings.TrimSpace(c.Master) == "" {
		return errMasterRequired
	}
	if len(c.sentinels) == 0 {
		return errNoSentinels
	}
	return validateAddrs(c.sentinels)
}

// ClusterConfig describes the seed nodes of a Redis Cluster. Node order is
// preserved: the client is seeded with one URI per node, in this order.
type ClusterConfig struct {
	// MaxRedirects bounds -MOVED/-ASK redirect following; zero keeps the
	// client default.
	MaxRedirects int

	nodes    []string
	password string
	database int
}

func NewClusterConfig(nodes ...string) *ClusterConfig {
	c := &ClusterConfig{}
	for _, n := range nodes {
		c.AddNode(n)
	}
	return c
}

func (c *ClusterConfig) AddNode(addr string) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	c.nodes = append(c.nodes, addr)
}

func (c *ClusterConfig) Nodes() []string {
	out := make([]string, len(c.nodes))
	copy(out, c.nodes)
	return out
}

func (c *ClusterConfig) Password() string     { return c.password }
func (c *ClusterConfig) SetPassword(p string) { c.password = p }
func (c *ClusterConfig) Database() int        { return c.database }

func (c *ClusterConfig) SetDatabase(db int) error {
	if db < 0 {
		return errInvalidDB
	}
	c.database = db
	return nil
}

func (c *ClusterConfig) validate() error {
	if len(c.nodes) == 0 {
		return errNoClusterNodes
	}
	return validateAddrs(c.nodes)
}

func validateAddrs(addrs []string) error {
	for _, a := range addrs {
		if _, _, err := splitAddr(a); err != nil {
			return err
		}
	}
	return nil
}

func splitAddr(addr string) (string, int, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %q", errInvalidNodeAddress, addr)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 || port > 65535 {
		return "", 0, fmt.Errorf("%w: %q", errInvalidNodeAddress, addr)
	}
	return host, port, nil
}
