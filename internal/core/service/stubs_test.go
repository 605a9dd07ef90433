package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopit/storefront/internal/core/domain"
	"github.com/shopit/storefront/internal/core/ports"
)

type stubLimiter struct {
	mu       sync.Mutex
	blocked  bool
	checkErr error
	failures map[string]int
	resets   int
}

func (l *stubLimiter) Blocked(context.Context, string) (bool, error) { return l.blocked, l.checkErr }

func (l *stubLimiter) RecordFailure(_ context.Context, email string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failures == nil {
		l.failures = make(map[string]int)
	}
	l.failures[email]++
	return nil
}

func (l *stubLimiter) Reset(context.Context, string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.resets++
	return nil
}

type stubMailQueue struct {
	mu   sync.Mutex
	sent []ports.MailMessage
	err  error
}

func (q *stubMailQueue) Enqueue(msg ports.MailMessage) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.sent = append(q.sent, msg)
	return nil
}

func (q *stubMailQueue) messages() []ports.MailMessage {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]ports.MailMessage(nil), q.sent...)
}

type stubAvatarStore struct {
	uploaded []domain.Avatar
	deleted  []string
	err      error
}

func (s *stubAvatarStore) Upload(_ context.Context, _ string) (domain.Avatar, error) {
	if s.err != nil {
		return domain.Avatar{}, s.err
	}
	av := domain.Avatar{
		PublicID: fmt.Sprintf("avatars/%d.jpg", len(s.uploaded)+1),
		URL:      fmt.Sprintf("https://cdn.test/avatars/%d.jpg", len(s.uploaded)+1),
	}
	s.uploaded = append(s.uploaded, av)
	return av, nil
}

func (s *stubAvatarStore) Delete(_ context.Context, publicID string) error {
	s.deleted = append(s.deleted, publicID)
	return nil
}

var errStorage = errors.New("storage unavailable")

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type brokenHasher struct{ err error }

func (h brokenHasher) Hash(string) (string, error) { return "", h.err }

func (brokenHasher) Verify(string, string) bool { return false }
