package influxdb

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/infrastructure/config"
)

// fakeServer answers pings and records line protocol bodies.
type fakeServer struct {
	*httptest.Server

	mu     sync.Mutex
	writes []string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()

	fs := &fakeServer{}
	fs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/ping"):
			w.WriteHeader(http.StatusNoContent)
		case strings.HasSuffix(r.URL.Path, "/write"):
			body, _ := io.ReadAll(r.Body) //nolint:errcheck // test server
			fs.mu.Lock()
			fs.writes = append(fs.writes, string(body))
			fs.mu.Unlock()
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(fs.Close)
	return fs
}

func (fs *fakeServer) body() string {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return strings.Join(fs.writes, "")
}

func testConfig(url string) config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           url,
		Token:         "test-token",
		Org:           "gaplan",
		Bucket:        "plans",
		BatchSize:     10,
		FlushInterval: 1,
	}
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Enabled = false

	if _, err := Connect(cfg, "site"); !errors.Is(err, ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	if _, err := Connect(testConfig(url), "site"); !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestWriteGeneration(t *testing.T) {
	srv := newFakeServer(t)

	client, err := Connect(testConfig(srv.URL), "site-001")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}

	client.WriteGeneration(Generation{
		Project:  "House",
		Mode:     "function",
		Stats:    generator.Stats{MainGroups: 2, MiddleGroups: 3, Addresses: 12, Separators: 4},
		Duration: 1500 * time.Microsecond,
	})
	client.Flush()

	body := srv.body()
	for _, want := range []string{
		"plan_generation,",
		"cache=miss",
		"mode=function",
		"project=House",
		"site=site-001",
		"addresses=12i",
		"duration_ms=1.5",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("line protocol %q lacks %q", body, want)
		}
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}
	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() after Close() = %v, want ErrNotConnected", err)
	}

	// Writes after Close are dropped.
	client.WriteGeneration(Generation{Project: "late"})
	client.Flush()
	if err := client.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestGenerationPoint(t *testing.T) {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	p := generationPoint("s1", Generation{
		Project:  "Flat",
		Mode:     "device",
		CacheHit: true,
		Stats:    generator.Stats{Addresses: 3},
		At:       at,
	})

	got := write.PointToLineProtocol(p, time.Second)
	want := "plan_generation,cache=hit,mode=device,project=Flat,site=s1 " +
		"addresses=3i,duration_ms=0,main_groups=0i,middle_groups=0i,separators=0i 1772355600\n"
	if got != want {
		t.Errorf("line protocol =\n%q\nwant\n%q", got, want)
	}
}

func TestClose_Nil(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}
	if c.IsConnected() {
		t.Error("nil client reports connected")
	}
}
