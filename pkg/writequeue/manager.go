// Package writequeue serializes write operations per author.
//
// Writes of one author run in FIFO order on a dedicated worker, which keeps
// SQLite away from "database is locked" and makes slug checks and inserts
// of the same author race free.
package writequeue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrWriteQueueFull 当用户写队列已满时返回
	ErrWriteQueueFull = errors.New("write queue is full")
	// ErrWriteQueueClosed 当写队列管理器已关闭时返回
	ErrWriteQueueClosed = errors.New("write queue is closed")
	// ErrWriteTimeout 当写操作超时时返回
	ErrWriteTimeout = errors.New("write operation timeout")
)

// Config 写队列配置
type Config struct {
	// QueueCapacity per-author queue capacity, default 100
	QueueCapacity int
	// WriteTimeout bounds waiting for a single write, default 30 seconds
	WriteTimeout time.Duration
	// IdleTimeout after which an unused queue is released, default 10 minutes
	IdleTimeout time.Duration
}

// DefaultConfig 返回默认配置
func DefaultConfig() Config {
	return Config{
		QueueCapacity: 100,
		WriteTimeout:  30 * time.Second,
		IdleTimeout:   10 * time.Minute,
	}
}

type writeOp struct {
	ctx    context.Context
	fn     func() error
	result chan error
}

type authorQueue struct {
	uid      int64
	ch       chan writeOp
	quit     chan struct{}
	refs     int
	lastUsed time.Time
}

// Manager 管理所有作者的写队列
type Manager struct {
	config Config
	logger *zap.Logger

	mu     sync.Mutex
	queues map[int64]*authorQueue
	closed bool

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// New creates a manager; nil cfg or logger fall back to defaults.
func New(cfg *Config, logger *zap.Logger) *Manager {
	c := DefaultConfig()
	if cfg != nil {
		if cfg.QueueCapacity > 0 {
			c.QueueCapacity = cfg.QueueCapacity
		}
		if cfg.WriteTimeout > 0 {
			c.WriteTimeout = cfg.WriteTimeout
		}
		if cfg.IdleTimeout > 0 {
			c.IdleTimeout = cfg.IdleTimeout
		}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		config: c,
		logger: logger,
		queues: make(map[int64]*authorQueue),
		stopCh: make(chan struct{}),
	}

	m.wg.Add(1)
	go m.janitor()

	m.logger.Info("write queue manager started",
		zap.Int("queueCapacity", c.QueueCapacity),
		zap.Duration("writeTimeout", c.WriteTimeout),
		zap.Duration("idleTimeout", c.IdleTimeout))

	return m
}

// Execute runs fn on the worker of uid and waits for its result.
// Execute 执行写操作，同一作者的写操作按 FIFO 顺序处理
func (m *Manager) Execute(ctx context.Context, uid int64, fn func() error) error {
	q, err := m.acquire(uid)
	if err != nil {
		return err
	}
	defer m.release(q)

	op := writeOp{ctx: ctx, fn: fn, result: make(chan error, 1)}

	timeout := m.config.WriteTimeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case q.ch <- op:
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return ErrWriteQueueFull
	}

	select {
	case err := <-op.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		m.logger.Warn("write operation timeout", zap.Int64("uid", uid), zap.Duration("timeout", timeout))
		return ErrWriteTimeout
	}
}

func (m *Manager) acquire(uid int64) (*authorQueue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrWriteQueueClosed
	}

	q, ok := m.queues[uid]
	if !ok {
		q = &authorQueue{
			uid:  uid,
			ch:   make(chan writeOp, m.config.QueueCapacity),
			quit: make(chan struct{}),
		}
		m.queues[uid] = q
		m.wg.Add(1)
		go m.worker(q)
		m.logger.Debug("created write queue", zap.Int64("uid", uid))
	}
	q.refs++
	q.lastUsed = time.Now()
	return q, nil
}

func (m *Manager) release(q *authorQueue) {
	m.mu.Lock()
	q.refs--
	q.lastUsed = time.Now()
	m.mu.Unlock()
}

func (m *Manager) worker(q *authorQueue) {
	defer m.wg.Done()
	for {
		select {
		case op := <-q.ch:
			m.apply(op)
		case <-q.quit:
			return
		case <-m.stopCh:
			for {
				select {
				case op := <-q.ch:
					m.apply(op)
				default:
					return
				}
			}
		}
	}
}

func (m *Manager) apply(op writeOp) {
	if err := op.ctx.Err(); err != nil {
		op.result <- err
		return
	}
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("write operation panic", zap.Any("panic", r))
			op.result <- fmt.Errorf("write operation panic: %v", r)
		}
	}()
	op.result <- op.fn()
}

// janitor releases queues that nobody holds and that stayed idle for IdleTimeout.
func (m *Manager) janitor() {
	defer m.wg.Done()

	interval := m.config.IdleTimeout / 2
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.reap(time.Now())
		case <-m.stopCh:
			return
		}
	}
}

func (m *Manager) reap(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for uid, q := range m.queues {
		if q.refs == 0 && len(q.ch) == 0 && now.Sub(q.lastUsed) >= m.config.IdleTimeout {
			close(q.quit)
			delete(m.queues, uid)
			m.logger.Debug("released idle write queue", zap.Int64("uid", uid))
		}
	}
}

// QueueCount returns the number of live author queues.
func (m *Manager) QueueCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queues)
}

// IsClosed 检查管理器是否已关闭
func (m *Manager) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Shutdown stops accepting writes, drains queued ones and waits for workers.
// Shutdown 优雅关闭
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	close(m.stopCh)
	m.mu.Unlock()

	m.logger.Info("write queue manager shutting down")

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		m.logger.Info("write queue manager shutdown completed")
		return nil
	case <-ctx.Done():
		m.logger.Warn("write queue manager shutdown timeout")
		return ctx.Err()
	}
}
