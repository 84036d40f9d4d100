// Package otp issues and checks the one-time codes that authorize a password
// reset. Challenges are keyed by email and live only in a ChallengeStore.
package otp

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"time"
)

const (
	DefaultTTL         = 10 * time.Minute
	DefaultMaxAttempts = 3

	codeMin = 100000
	codeMax = 999999
)

var (
	ErrNotFound        = errors.New("otp not found")
	ErrExpired         = errors.New("otp expired")
	ErrTooManyAttempts = errors.New("too many otp attempts")
)

// MismatchError is returned for a wrong code while attempts remain.
type MismatchError struct {
	Remaining int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("invalid otp, %d attempts remaining", e.Remaining)
}

type Challenge struct {
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	Attempts  int       `json:"attempts"`
}

// Action tells a ChallengeStore what to do with a challenge after Update.
type Action int

const (
	// Keep leaves the stored challenge untouched.
	Keep Action = iota
	// Save persists the mutated challenge.
	Save
	// Delete removes the challenge.
	Delete
)

// ChallengeStore holds at most one challenge per email. Update must run fn
// with exclusive access to the email's challenge; fn receives nil when none exists.
type ChallengeStore interface {
	Put(ctx context.Context, email string, ch Challenge) error
	Update(ctx context.Context, email string, fn func(ch *Challenge) Action) error
}

type Manager struct {
	store       ChallengeStore
	ttl         time.Duration
	maxAttempts int
	now         func() time.Time
	generate    func() (string, error)
}

type Option func(*Manager)

func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) { m.ttl = ttl }
}

func WithMaxAttempts(n int) Option {
	return func(m *Manager) { m.maxAttempts = n }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func WithGenerator(gen func() (string, error)) Option {
	return func(m *Manager) { m.generate = gen }
}

func NewManager(store ChallengeStore, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		ttl:         DefaultTTL,
		maxAttempts: DefaultMaxAttempts,
		now:         time.Now,
		generate:    GenerateCode,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a fresh challenge for email, replacing any earlier one, and
// returns its code for delivery.
func (m *Manager) Issue(ctx context.Context, email string) (string, error) {
	var code string
	err := m.Deliver(ctx, email, func(c string) error {
		code = c
		return nil
	})
	if err != nil {
		return "", err
	}
	return code, nil
}

// Deliver generates a code and hands it to send. The challenge is stored only
// after send succeeds, so a failed delivery leaves any earlier challenge
// active. Errors from send are returned unwrapped.
func (m *Manager) Deliver(ctx context.Context, email string, send func(code string) error) error {
	code, err := m.generate()
	if err != nil {
		return fmt.Errorf("failed to generate OTP: %w", err)
	}

	createdAt := m.now()
	if err := send(code); err != nil {
		return err
	}

	ch := Challenge{Code: code, CreatedAt: createdAt, Attempts: 0}
	if err := m.store.Put(ctx, email, ch); err != nil {
		return fmt.Errorf("failed to store OTP: %w", err)
	}
	return nil
}

// Verify checks code against the active challenge for email. The attempt is
// counted before comparing. A match or the last allowed miss consumes the
// challenge; an earlier miss keeps it and returns *MismatchError.
func (m *Manager) Verify(ctx context.Context, email, code string) error {
	var result error

	err := m.store.Update(ctx, email, func(ch *Challenge) Action {
		if ch == nil {
			result = ErrNotFound
			return Keep
		}

		if m.now().Sub(ch.CreatedAt) > m.ttl {
			result = ErrExpired
			return Delete
		}

		ch.Attempts++

		if subtle.ConstantTimeCompare([]byte(ch.Code), []byte(code)) == 1 {
			result = nil
			return Delete
		}

		if ch.Attempts >= m.maxAttempts {
			result = ErrTooManyAttempts
			return Delete
		}

		result = &MismatchError{Remaining: m.maxAttempts - ch.Attempts}
		return Save
	})
	if err != nil {
		return fmt.Errorf("failed to verify OTP: %w", err)
	}
	return result
}

// GenerateCode returns a uniformly random 6-digit code.
func GenerateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeMax-codeMin+1))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+codeMin, 10), nil
}
