// Package safe_close coordinates graceful shutdown of long running workers.
package safe_close

import (
	"sync"
)

// SafeClose broadcasts one close signal to every attached worker and
// waits until all of them report done.
type SafeClose struct {
	closeSignal chan struct{}
	once        sync.Once
	wg          sync.WaitGroup

	mu  sync.Mutex
	err error
}

func NewSafeClose() *SafeClose {
	return &SafeClose{closeSignal: make(chan struct{})}
}

// Attach starts fn in its own goroutine. fn must call done when it returns.
func (s *SafeClose) Attach(fn func(done func(), closeSignal <-chan struct{})) {
	s.wg.Add(1)
	go fn(s.wg.Done, s.closeSignal)
}

// SendCloseSignal closes the signal channel once; the first non-nil err is kept.
func (s *SafeClose) SendCloseSignal(err error) {
	s.mu.Lock()
	if s.err == nil && err != nil {
		s.err = err
	}
	s.mu.Unlock()

	s.once.Do(func() {
		close(s.closeSignal)
	})
}

// Closed reports whether the close signal was sent.
func (s *SafeClose) Closed() bool {
	select {
	case <-s.closeSignal:
		return true
	default:
		return false
	}
}

// WaitClosed blocks until every attached worker is done and returns the
// error that triggered the shutdown, if any.
func (s *SafeClose) WaitClosed() error {
	s.wg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}
