package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/infrastructure/config"
)

func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "gaplan-test",
		},
		QoS:         1,
		TopicPrefix: "gaplan",
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

func TestTopics(t *testing.T) {
	topics := NewTopics(testConfig(), "Site 001")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"status", topics.Status(), "gaplan/site-001/status"},
		{"rows", topics.PlanRows("Single-Family House"), "gaplan/site-001/plans/single-family-house/rows"},
		{"summary", topics.PlanSummary("Single-Family House"), "gaplan/site-001/plans/single-family-house/summary"},
		{"all plans", topics.AllPlans(), "gaplan/site-001/plans/#"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Haus Müller", "haus-müller"},
		{"  EG / OG  ", "eg-og"},
		{"a+b#c", "a-b-c"},
		{"Plan 2026", "plan-2026"},
		{"", "unnamed"},
		{"///", "unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Slug(tt.in)
			if got != tt.want {
				t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if strings.ContainsAny(got, "/+#") {
				t.Errorf("Slug(%q) = %q contains a topic wildcard or separator", tt.in, got)
			}
		})
	}
}

func TestCheckPublish(t *testing.T) {
	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"valid", "a/b", []byte("x"), 1, nil},
		{"nil payload", "a/b", nil, 0, nil},
		{"empty topic", "", nil, 0, ErrInvalidTopic},
		{"qos 3", "a/b", nil, 3, ErrInvalidQoS},
		{"too large", "a/b", make([]byte, maxPayloadSize+1), 0, ErrPublishFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPublish(tt.topic, tt.payload, tt.qos)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("checkPublish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883
	cfg.Auth = config.MQTTAuthConfig{Username: "planner", Password: "pw"}

	opts := buildClientOptions(cfg)
	configureLWT(opts, NewTopics(cfg, "site-001"), cfg.Broker.ClientID)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "ssl://127.0.0.1:8883" {
		t.Errorf("Servers = %v, want ssl://127.0.0.1:8883", opts.Servers)
	}
	if opts.TLSConfig == nil {
		t.Error("TLSConfig not set for TLS broker")
	}
	if opts.ClientID != "gaplan-test" || opts.Username != "planner" || opts.Password != "pw" {
		t.Errorf("identity = %q/%q/%q", opts.ClientID, opts.Username, opts.Password)
	}
	if !opts.WillEnabled || !opts.WillRetained || opts.WillTopic != "gaplan/site-001/status" {
		t.Errorf("will = enabled:%v retained:%v topic:%q", opts.WillEnabled, opts.WillRetained, opts.WillTopic)
	}

	var will statusMessage
	if err := json.Unmarshal(opts.WillPayload, &will); err != nil {
		t.Fatalf("will payload is not JSON: %v", err)
	}
	if will.Status != "offline" || will.Reason != "unexpected_disconnect" {
		t.Errorf("will payload = %+v", will)
	}
}

func TestClient_ZeroValue(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Errorf("nil Close() error = %v", err)
	}

	c = &Client{}
	if c.IsConnected() {
		t.Error("IsConnected() = true for unconnected client")
	}
	if err := c.Publish("a/b", nil, 0, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish() error = %v, want ErrNotConnected", err)
	}
	if err := c.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.HealthCheck(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck(cancelled) error = %v, want context.Canceled", err)
	}
}

type sent struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

type fakePublisher struct {
	sent   []sent
	failOn string
}

func (f *fakePublisher) Publish(topic string, payload []byte, qos byte, retained bool) error {
	if topic == f.failOn {
		return ErrPublishFailed
	}
	f.sent = append(f.sent, sent{topic, payload, qos, retained})
	return nil
}

func TestPlanPublisher_PublishPlan(t *testing.T) {
	fake := &fakePublisher{}
	topics := NewTopics(testConfig(), "site-001")
	pub := NewPlanPublisher(fake, topics, 1)

	sub := 0
	mid := 0
	rows := []generator.Row{
		{Level: generator.LevelMain, MainGroup: 1, Name: "Ground Floor"},
		{Level: generator.LevelMiddle, MainGroup: 1, MiddleGroup: &mid, Name: "Light"},
		{Level: generator.LevelGA, MainGroup: 1, MiddleGroup: &mid, Sub: &sub, Name: "EG Living - Switch", DPT: "1.001"},
	}
	summary := PlanSummary{Project: "My House", Mode: "building", Stats: generator.Summarise(rows)}

	if err := pub.PublishPlan(context.Background(), summary, rows); err != nil {
		t.Fatalf("PublishPlan() error = %v", err)
	}

	if len(fake.sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(fake.sent))
	}
	if fake.sent[0].topic != "gaplan/site-001/plans/my-house/rows" ||
		fake.sent[1].topic != "gaplan/site-001/plans/my-house/summary" {
		t.Errorf("topics = %q, %q", fake.sent[0].topic, fake.sent[1].topic)
	}
	for _, m := range fake.sent {
		if !m.retained || m.qos != 1 {
			t.Errorf("%s: retained=%v qos=%d, want retained qos 1", m.topic, m.retained, m.qos)
		}
	}

	var gotRows []generator.Row
	if err := json.Unmarshal(fake.sent[0].payload, &gotRows); err != nil || len(gotRows) != 3 {
		t.Errorf("rows payload = %s (%v)", fake.sent[0].payload, err)
	}

	var gotSummary PlanSummary
	if err := json.Unmarshal(fake.sent[1].payload, &gotSummary); err != nil {
		t.Fatalf("summary payload: %v", err)
	}
	if gotSummary.Stats.Addresses != 1 || gotSummary.Mode != "building" {
		t.Errorf("summary = %+v", gotSummary)
	}
}

func TestPlanPublisher_Errors(t *testing.T) {
	topics := NewTopics(testConfig(), "site-001")

	t.Run("rows failure stops summary", func(t *testing.T) {
		fake := &fakePublisher{failOn: topics.PlanRows("p")}
		err := NewPlanPublisher(fake, topics, 0).PublishPlan(context.Background(), PlanSummary{Project: "p"}, nil)
		if !errors.Is(err, ErrPublishFailed) {
			t.Errorf("error = %v, want ErrPublishFailed", err)
		}
		if len(fake.sent) != 0 {
			t.Errorf("sent %d messages after failure, want 0", len(fake.sent))
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		fake := &fakePublisher{}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewPlanPublisher(fake, topics, 0).PublishPlan(ctx, PlanSummary{Project: "p"}, nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("error = %v, want context.Canceled", err)
		}
	})

	t.Run("nil rows publish empty array", func(t *testing.T) {
		fake := &fakePublisher{}
		if err := NewPlanPublisher(fake, topics, 0).PublishPlan(context.Background(), PlanSummary{Project: "p"}, nil); err != nil {
			t.Fatalf("error = %v", err)
		}
		if string(fake.sent[0].payload) != "[]" {
			t.Errorf("rows payload = %s, want []", fake.sent[0].payload)
		}
	})
}
