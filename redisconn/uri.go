package redisconn

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// URI is the seed descriptor handed to the underlying client, one per
// standalone endpoint, sentinel group, or cluster node. The command timeout
// is carried as a duration and rendered in milliseconds on the wire form.
type URI struct {
	Host       string
	Port       int
	Database   int
	Password   string
	SSL        bool
	StartTLS   bool
	VerifyPeer bool
	Timeout    time.Duration

	// sentinel form only
	MasterName string
	Sentinels  []string
}

func (u URI) Addr() string {
	return net.JoinHostPort(u.Host, strconv.Itoa(u.Port))
}

// TimeoutMillis renders the command timeout in the unit the wire form uses.
func (u URI) TimeoutMillis() int64 {
	return u.Timeout.Milliseconds()
}

func (u URI) Scheme() string {
	if u.MasterName != "" {
		return "redis-sentinel"
	}
	if u.SSL {
		return "rediss"
	}
	return "redis"
}

// String renders the wire form:
//
//	redis://:pass@host:6379/0?timeout=1000ms
//	rediss://:pass@host:6380/0?timeout=1000ms
//	redis-sentinel://:pass@s1:26379,s2:26379/0?sentinelMasterId=mymaster&timeout=1000ms
//
// Log only the logutil.RedactURI form of this value.
func (u URI) String() string {
	var sb strings.Builder

	sb.WriteString(u.Scheme())
	sb.WriteString("://")
	if u.Password != "" {
		sb.WriteString(":")
		sb.WriteString(url.QueryEscape(u.Password))
		sb.WriteString("@")
	}

	if u.MasterName != "" {
		sb.WriteString(strings.Join(u.Sentinels, ","))
	} else {
		sb.WriteString(u.Addr())
	}

	fmt.Fprintf(&sb, "/%d", u.Database)

	sep := "?"
	if u.MasterName != "" {
		fmt.Fprintf(&sb, "%ssentinelMasterId=%s", sep, url.QueryEscape(u.MasterName))
		sep = "&"
	}
	fmt.Fprintf(&sb, "%stimeout=%dms", sep, u.TimeoutMillis())

	return sb.String()
}

func uriStrings(uris []URI) []string {
	out := make([]string, len(uris))
	for i, u := range uris {
		out[i] = u.String()
	}
	return out
}
