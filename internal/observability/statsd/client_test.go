package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestMetricName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		prefix, name, want string
	}{
		{prefix: "", name: " dashboard/fetch ", want: "dashboard_fetch"},
		{prefix: "ikigai", name: "dashboard..navigate", want: "ikigai.dashboard.navigate"},
		{prefix: "ikigai", name: "a:b|c", want: "ikigai.a_b_c"},
		{prefix: "ikigai", name: "  ", want: ""},
	}
	for _, tt := range tests {
		if got := metricName(tt.prefix, tt.name); got != tt.want {
			t.Fatalf("metricName(%q, %q) = %q, want %q", tt.prefix, tt.name, got, tt.want)
		}
	}
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{"env": "prod", " service ": " admin "}
	local := map[string]string{"outcome": " live ", "": "ignored", "env": "stage"}

	got := formatTags(global, local)
	want := "|#env:stage,outcome:live,service:admin"
	if got != want {
		t.Fatalf("formatTags mismatch\n got: %q\nwant: %q", got, want)
	}
	if got := formatTags(nil, nil); got != "" {
		t.Fatalf("formatTags(nil, nil) = %q, want empty string", got)
	}
}

func TestClientLine(t *testing.T) {
	t.Parallel()

	c, err := NewClient(Config{Prefix: ".ikigai.", GlobalTags: map[string]string{"env": "test"}})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if c.Enabled() {
		t.Fatal("client without address must be disabled")
	}
	got := c.line("dashboard.fetch", "1", "c", map[string]string{"resource": "users"})
	if want := "ikigai.dashboard.fetch:1|c|#env:test,resource:users"; got != want {
		t.Fatalf("line = %q, want %q", got, want)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	t.Parallel()

	var c *Client
	c.Count("x", 1, nil)
	c.Timing("x", time.Second, nil)
	if c.Enabled() {
		t.Fatal("nil client must report disabled")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close on nil client: %v", err)
	}
}

func TestClientEmitsOverUDP(t *testing.T) {
	t.Parallel()

	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("udp listen unavailable: %v", err)
	}
	defer pc.Close()

	c, err := NewClient(Config{Enabled: true, Address: pc.LocalAddr().String(), Prefix: "ikigai"})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	defer c.Close()

	c.Timing("dashboard.fetch.duration", 1500*time.Microsecond, map[string]string{"resource": "stats"})

	buf := make([]byte, 512)
	_ = pc.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("read datagram: %v", err)
	}
	got := string(buf[:n])
	if !strings.HasPrefix(got, "ikigai.dashboard.fetch.duration:1.5|ms") {
		t.Fatalf("unexpected datagram %q", got)
	}
	if !strings.HasSuffix(got, "|#resource:stats") {
		t.Fatalf("missing tags in %q", got)
	}
}

func TestMemorySink(t *testing.T) {
	t.Parallel()

	var m MemorySink
	tags := map[string]string{"a": "1"}
	m.Count("hits", 2, tags)
	tags["a"] = "changed"
	m.Gauge("level", 0.5, nil)

	if got := len(m.Samples()); got != 2 {
		t.Fatalf("Samples len = %d, want 2", got)
	}
	hits := m.Named("hits")
	if len(hits) != 1 || hits[0].Value != 2 || hits[0].Tags["a"] != "1" {
		t.Fatalf("unexpected hits sample %+v", hits)
	}
}
