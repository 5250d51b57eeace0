package audit

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/metrics"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/models"
	"github.com/Surya2004-janardhan/Multi-Tenant-SaaS-Platform-with-Project-Task-Management/internal/repository"
)

// Sink is a destination for audit entries
type Sink interface {
	Name() string
	Write(ctx context.Context, entry *models.AuditLog) error
}

// StoreSink appends entries to the audit_logs table
type StoreSink struct {
	repo repository.AuditRepository
}

func NewStoreSink(repo repository.AuditRepository) *StoreSink {
	return &StoreSink{repo: repo}
}

func (s *StoreSink) Name() string { return "database" }

func (s *StoreSink) Write(ctx context.Context, entry *models.AuditLog) error {
	return s.repo.Create(ctx, entry)
}

// Config sizes the dispatcher
type Config struct {
	QueueSize    int
	Workers      int
	WriteTimeout time.Duration
}

type guardedSink struct {
	sink    Sink
	breaker *gobreaker.CircuitBreaker
}

// Dispatcher fans audit entries out to its sinks on background workers.
// Record never blocks and never fails; sink errors only reach the log.
type Dispatcher struct {
	queue   chan models.AuditLog
	sinks   []guardedSink
	workers int
	timeout time.Duration
	logger  *logrus.Entry

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// NewDispatcher creates a dispatcher; call Start to launch the workers
func NewDispatcher(cfg Config, logger *logrus.Logger, sinks ...Sink) *Dispatcher {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 5 * time.Second
	}

	d := &Dispatcher{
		queue:   make(chan models.AuditLog, cfg.QueueSize),
		workers: cfg.Workers,
		timeout: cfg.WriteTimeout,
		logger:  logger.WithField("component", "audit"),
	}
	for _, s := range sinks {
		d.sinks = append(d.sinks, guardedSink{sink: s, breaker: d.newBreaker(s.Name())})
	}
	return d
}

func (d *Dispatcher) newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        fmt.Sprintf("audit-%s", name),
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5 ||
				(counts.Requests >= 10 && float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			d.logger.WithFields(logrus.Fields{
				"circuit_breaker": name,
				"from":            from.String(),
				"to":              to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
}

// Start launches the worker goroutines
func (d *Dispatcher) Start() {
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.work()
	}
	d.logger.WithFields(logrus.Fields{
		"workers": d.workers,
		"sinks":   len(d.sinks),
	}).Info("Audit dispatcher started")
}

// Record enqueues entry. A full queue or a stopped dispatcher drops it.
func (d *Dispatcher) Record(entry models.AuditLog) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(entry, "dispatcher stopped")
		return
	}
	select {
	case d.queue <- entry:
		metrics.SetAuditQueueDepth(len(d.queue))
	default:
		d.drop(entry, "queue full")
	}
}

func (d *Dispatcher) drop(entry models.AuditLog, reason string) {
	d.dropped.Add(1)
	metrics.ObserveAuditDropped()
	d.logger.WithFields(logrus.Fields{
		"action":      entry.Action,
		"entity_type": entry.EntityType,
		"reason":      reason,
	}).Warn("Dropped audit entry")
}

// Dropped is the number of entries discarded since start
func (d *Dispatcher) Dropped() int64 {
	return d.dropped.Load()
}

func (d *Dispatcher) work() {
	defer d.wg.Done()
	for entry := range d.queue {
		metrics.SetAuditQueueDepth(len(d.queue))
		d.deliver(entry)
	}
}

func (d *Dispatcher) deliver(entry models.AuditLog) {
	entry.PrepareForInsert(time.Now())

	for _, gs := range d.sinks {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		e := entry
		_, err := gs.breaker.Execute(func() (interface{}, error) {
			return nil, gs.sink.Write(ctx, &e)
		})
		cancel()

		if err != nil {
			metrics.ObserveAuditWrite(gs.sink.Name(), "error")
			d.logger.WithFields(logrus.Fields{
				"sink":   gs.sink.Name(),
				"action": entry.Action,
			}).WithError(err).Error("Failed to write audit entry")
			continue
		}
		metrics.ObserveAuditWrite(gs.sink.Name(), "ok")
	}
}

// Stop closes the queue and waits for queued entries to drain or ctx to end
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	close(d.queue)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.logger.Info("Audit dispatcher drained")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("audit dispatcher did not drain: %w", ctx.Err())
	}
}
