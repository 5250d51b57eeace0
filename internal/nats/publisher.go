package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

// JetStreamPublisher is the slice of nats.JetStreamContext the publisher uses
type JetStreamPublisher interface {
	Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error)
}

// AuditEvent is the message body published for every audit entry
type AuditEvent struct {
	TenantID string           `json:"tenant_id,omitempty"`
	Log      *models.AuditLog `json:"log"`
}

// Publisher publishes audit entries on audit.<tenant|global>.<action>
type Publisher struct {
	js     JetStreamPublisher
	prefix string
	logger *logrus.Entry
}

// NewPublisher creates a publisher over a JetStream context
func NewPublisher(js JetStreamPublisher, prefix string, logger *logrus.Logger) *Publisher {
	if prefix == "" {
		prefix = "audit"
	}
	return &Publisher{js: js, prefix: prefix, logger: logger.WithField("component", "audit_publisher")}
}

// Subject returns the subject an entry is published on
func (p *Publisher) Subject(entry *models.AuditLog) string {
	scope := "global"
	if entry.TenantID != nil {
		scope = entry.TenantID.String()
	}
	return fmt.Sprintf("%s.%s.%s", p.prefix, scope, strings.ToLower(string(entry.Action)))
}

// Name identifies the sink in logs and metrics
func (p *Publisher) Name() string { return "nats" }

// Write publishes one entry and waits for the JetStream ack
func (p *Publisher) Write(ctx context.Context, entry *models.AuditLog) error {
	event := AuditEvent{Log: entry}
	if entry.TenantID != nil {
		event.TenantID = entry.TenantID.String()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	subject := p.Subject(entry)
	ack, err := p.js.Publish(subject, data, nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", subject, err)
	}

	p.logger.WithFields(logrus.Fields{
		"subject":  subject,
		"sequence": ack.Sequence,
		"stream":   ack.Stream,
	}).Debug("Published audit event")
	return nil
}
