package redisconn

import (
	"errors"
	"reflect"
	"testing"
)

func TestDefaultStandaloneConfig(t *testing.T) {
	cfg := DefaultStandaloneConfig()
	if cfg.HostName != "localhost" || cfg.Port != 6379 {
		t.Fatalf("unexpected defaults: %s:%d", cfg.HostName, cfg.Port)
	}
	if cfg.Database() != 0 || cfg.Password() != "" {
		t.Fatalf("expected empty password and db 0, got %q/%d", cfg.Password(), cfg.Database())
	}
	if cfg.Addr() != "localhost:6379" {
		t.Fatalf("unexpected Addr: %q", cfg.Addr())
	}
}

func TestStandaloneConfig_SetDatabase(t *testing.T) {
	cfg := DefaultStandaloneConfig()
	if err := cfg.SetDatabase(3); err != nil {
		t.Fatalf("SetDatabase(3) error: %v", err)
	}
	if cfg.Database() != 3 {
		t.Fatalf("database not stored, got %d", cfg.Database())
	}
	if err := cfg.SetDatabase(-1); !errors.Is(err, errInvalidDB) {
		t.Fatalf("expected errInvalidDB, got %v", err)
	}
	if cfg.Database() != 3 {
		t.Fatal("failed write must not change the stored database")
	}
}

func TestSentinelConfig_SetSemantics(t *testing.T) {
	cfg := NewSentinelConfig("mymaster", "a:26379", "b:26379", "a:26379", " ", "c:26379")

	want := []string{"a:26379", "b:26379", "c:26379"}
	if got := cfg.Sentinels(); !reflect.DeepEqual(got, want) {
		t.Fatalf("sentinels = %+v, want %+v", got, want)
	}

	cfg.AddSentinel("b:26379")
	if got := cfg.Sentinels(); !reflect.DeepEqual(got, want) {
		t.Fatalf("duplicate AddSentinel changed the set: %+v", got)
	}
}

func TestSentinelConfig_SentinelsIsACopy(t *testing.T) {
	cfg := NewSentinelConfig("mymaster", "a:26379")
	got := cfg.Sentinels()
	got[0] = "mutated"
	if cfg.Sentinels()[0] != "a:26379" {
		t.Fatal("Sentinels() must return a copy")
	}
}

func TestClusterConfig_NodeOrderPreserved(t *testing.T) {
	cfg := NewClusterConfig("n3:7002", "n1:7000", "n2:7001")
	cfg.AddNode("n1:7000") // cluster nodes are an ordered list, not a set

	want := []string{"n3:7002", "n1:7000", "n2:7001", "n1:7000"}
	if got := cfg.Nodes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("nodes = %+v, want %+v", got, want)
	}
}

func TestValidate_Errors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{"standalone no host", NewStandaloneConfig("", 6379).validate(), errHostRequired},
		{"standalone bad port", NewStandaloneConfig("h", 70000).validate(), errInvalidPort},
		{"sentinel no master", NewSentinelConfig("", "a:26379").validate(), errMasterRequired},
		{"sentinel no addrs", NewSentinelConfig("m").validate(), errNoSentinels},
		{"sentinel bad addr", NewSentinelConfig("m", "nope").validate(), errInvalidNodeAddress},
		{"cluster empty", NewClusterConfig().validate(), errNoClusterNodes},
		{"cluster bad node", NewClusterConfig("host-without-port").validate(), errInvalidNodeAddress},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !errors.Is(tc.err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, tc.err)
			}
		})
	}
}

func TestSplitAddr(t *testing.T) {
	host, port, err := splitAddr("10.0.0.1:6379")
	if err != nil || host != "10.0.0.1" || port != 6379 {
		t.Fatalf("splitAddr = %q, %d, %v", host, port, err)
	}

	for _, bad := range []string{"", "host", "host:", "host:notaport", "host:0", "host:99999"} {
		if _, _, err := splitAddr(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
