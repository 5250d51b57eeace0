package audit

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

type recordingSink struct {
	name string
	err  error

	mu      sync.Mutex
	calls   int
	entries []models.AuditLog
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Write(_ context.Context, entry *models.AuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, *entry)
	return nil
}

func (s *recordingSink) snapshot() (int, []models.AuditLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls, append([]models.AuditLog(nil), s.entries...)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDispatcherDeliversToEverySink(t *testing.T) {
	a := &recordingSink{name: "a"}
	b := &recordingSink{name: "b"}
	d := NewDispatcher(Config{QueueSize: 8, Workers: 2}, quietLogger(), a, b)
	d.Start()

	tenantID := uuid.New()
	for i := 0; i < 3; i++ {
		d.Record(models.AuditLog{TenantID: &tenantID, Action: models.ActionCreate, EntityType: models.EntityProject})
	}
	require.NoError(t, d.Stop(context.Background()))

	_, gotA := a.snapshot()
	_, gotB := b.snapshot()
	assert.Len(t, gotA, 3)
	assert.Len(t, gotB, 3)
	assert.NotEqual(t, uuid.Nil, gotA[0].ID)
	assert.False(t, gotA[0].CreatedAt.IsZero())
}

func TestDispatcherFailingSinkDoesNotAffectOthers(t *testing.T) {
	bad := &recordingSink{name: "bad", err: errors.New("down")}
	good := &recordingSink{name: "good"}
	d := NewDispatcher(Config{QueueSize: 8, Workers: 1}, quietLogger(), bad, good)
	d.Start()

	d.Record(models.AuditLog{Action: models.ActionLogin})
	require.NoError(t, d.Stop(context.Background()))

	_, entries := good.snapshot()
	assert.Len(t, entries, 1)
}

func TestDispatcherBreakerStopsCallingFailingSink(t *testing.T) {
	bad := &recordingSink{name: "bad", err: errors.New("down")}
	d := NewDispatcher(Config{QueueSize: 16, Workers: 1}, quietLogger(), bad)
	d.Start()

	for i := 0; i < 10; i++ {
		d.Record(models.AuditLog{Action: models.ActionUpdate})
	}
	require.NoError(t, d.Stop(context.Background()))

	calls, _ := bad.snapshot()
	assert.Equal(t, 5, calls)
}

func TestDispatcherDropsWhenQueueFull(t *testing.T) {
	sink := &recordingSink{name: "s"}
	d := NewDispatcher(Config{QueueSize: 1, Workers: 1}, quietLogger(), sink)

	d.Record(models.AuditLog{Action: models.ActionLogin})
	d.Record(models.AuditLog{Action: models.ActionLogin})
	assert.Equal(t, int64(1), d.Dropped())

	d.Start()
	require.NoError(t, d.Stop(context.Background()))
	_, entries := sink.snapshot()
	assert.Len(t, entries, 1)
}

func TestDispatcherRecordAfterStopIsDropped(t *testing.T) {
	d := NewDispatcher(Config{QueueSize: 4, Workers: 1}, quietLogger())
	d.Start()
	require.NoError(t, d.Stop(context.Background()))
	require.NoError(t, d.Stop(context.Background()))

	d.Record(models.AuditLog{Action: models.ActionLogout})
	assert.Equal(t, int64(1), d.Dropped())
}

func TestStoreSinkWritesToRepository(t *testing.T) {
	store := repository.NewMemoryStore()
	d := NewDispatcher(Config{QueueSize: 4, Workers: 1}, quietLogger(), NewStoreSink(store.Audit()))
	d.Start()

	d.Record(models.AuditLog{Action: models.ActionCreate, EntityType: models.EntityTenant})
	require.NoError(t, d.Stop(context.Background()))

	entries := store.AuditEntries()
	require.Len(t, entries, 1)
	assert.Equal(t, models.EntityTenant, entries[0].EntityType)
}

func TestCleanupRunOnce(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Audit().Create(ctx, &models.AuditLog{Action: models.ActionLogin, CreatedAt: time.Now().AddDate(0, 0, -40)}))
	require.NoError(t, store.Audit().Create(ctx, &models.AuditLog{Action: models.ActionLogin}))

	s := NewCleanupScheduler(store.Audit(), 30, "0 3 * * *", quietLogger())
	assert.Equal(t, "0 0 3 * * *", s.schedule)

	n, err := s.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Len(t, store.AuditEntries(), 1)
}

func TestCleanupStartStop(t *testing.T) {
	s := NewCleanupScheduler(repository.NewMemoryStore().Audit(), 30, "", quietLogger())
	require.NoError(t, s.Start())
	require.NoError(t, s.Start())
	s.Stop()

	bad := NewCleanupScheduler(repository.NewMemoryStore().Audit(), 30, "not a schedule", quietLogger())
	assert.Error(t, bad.Start())

	disabled := NewCleanupScheduler(repository.NewMemoryStore().Audit(), 0, "", quietLogger())
	require.NoError(t, disabled.Start())
	disabled.Stop()
}
