package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/generator"
)

// PlanSummary is the retained payload on the summary topic.
type PlanSummary struct {
	Project     string          `json:"project"`
	Mode        string          `json:"mode"`
	Key         string          `json:"key,omitempty"`
	Stats       generator.Stats `json:"stats"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// publisher is the subset of Client used by PlanPublisher.
type publisher interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
}

// PlanPublisher publishes generated row lists as retained messages so a
// subscriber joining later sees the latest plan of each project.
type PlanPublisher struct {
	pub    publisher
	topics Topics
	qos    byte
}

// NewPlanPublisher returns a publisher sending through pub.
func NewPlanPublisher(pub publisher, topics Topics, qos byte) *PlanPublisher {
	return &PlanPublisher{pub: pub, topics: topics, qos: qos}
}

// NewClientPlanPublisher returns a publisher bound to a connected client.
func NewClientPlanPublisher(c *Client) *PlanPublisher {
	return NewPlanPublisher(c, c.Topics(), byte(c.cfg.QoS)) //nolint:gosec // QoS validated by config
}

// PublishPlan sends the rows (JSON array) and then the summary. The rows
// go first so a summary never points at rows that were not delivered.
func (p *PlanPublisher) PublishPlan(ctx context.Context, summary PlanSummary, rows []generator.Row) error {
	if rows == nil {
		rows = []generator.Row{}
	}

	rowsPayload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encoding plan rows: %w", err)
	}
	summaryPayload, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encoding plan summary: %w", err)
	}

	messages := []struct {
		topic   string
		payload []byte
	}{
		{p.topics.PlanRows(summary.Project), rowsPayload},
		{p.topics.PlanSummary(summary.Project), summaryPayload},
	}

	for _, m := range messages {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.pub.Publish(m.topic, m.payload, p.qos, true); err != nil {
			return fmt.Errorf("publishing %s: %w", m.topic, err)
		}
	}
	return nil
}
