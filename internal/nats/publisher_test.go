package nats

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
)

type fakeJetStream struct {
	subject string
	data    []byte
	err     error
}

func (f *fakeJetStream) Publish(subj string, data []byte, _ ...nats.PubOpt) (*nats.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.subject = subj
	f.data = data
	return &nats.PubAck{Stream: StreamName, Sequence: 1}, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestPublisherSubjects(t *testing.T) {
	p := NewPublisher(&fakeJetStream{}, "", quietLogger())
	tenantID := uuid.New()

	assert.Equal(t, "audit."+tenantID.String()+".login",
		p.Subject(&models.AuditLog{TenantID: &tenantID, Action: models.ActionLogin}))
	assert.Equal(t, "audit.global.create",
		p.Subject(&models.AuditLog{Action: models.ActionCreate}))
}

func TestPublisherWrite(t *testing.T) {
	js := &fakeJetStream{}
	p := NewPublisher(js, "taskhub", quietLogger())
	tenantID := uuid.New()
	entry := &models.AuditLog{ID: uuid.New(), TenantID: &tenantID, Action: models.ActionDelete, EntityType: models.EntityProject}

	require.NoError(t, p.Write(context.Background(), entry))
	assert.Equal(t, "taskhub."+tenantID.String()+".delete", js.subject)

	var event AuditEvent
	require.NoError(t, json.Unmarshal(js.data, &event))
	assert.Equal(t, tenantID.String(), event.TenantID)
	assert.Equal(t, entry.ID, event.Log.ID)
}

func TestPublisherWriteError(t *testing.T) {
	p := NewPublisher(&fakeJetStream{err: errors.New("no responders")}, "", quietLogger())

	err := p.Write(context.Background(), &models.AuditLog{Action: models.ActionLogin})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit.global.login")
}
