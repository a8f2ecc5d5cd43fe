package pin

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/gokatarajesh/quizpin/internal/metrics"
	"github.com/gokatarajesh/quizpin/internal/quizset"
)

// Alphabet omits I, O, 0 and 1 so codes survive being read aloud. Its size
// divides 256, so mapping random bytes onto it is unbiased.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	DefaultLength      = 6
	DefaultMaxAttempts = 10
)

// Lookup is the set-by-code capability of the store.
type Lookup interface {
	SetByPIN(ctx context.Context, pin string) (quizset.Set, error)
}

// Options tunes the allocator. Zero values fall back to defaults.
type Options struct {
	Length      int
	MaxAttempts int
	Rand        io.Reader
}

// Allocator generates short unique PINs for question sets.
type Allocator struct {
	lookup      Lookup
	length      int
	maxAttempts int
	rand        io.Reader
	logger      zerolog.Logger
}

var _ quizset.PINAssigner = (*Allocator)(nil)

// NewAllocator builds an allocator over the given lookup.
func NewAllocator(lookup Lookup, opts Options, logger zerolog.Logger) *Allocator {
	if opts.Length <= 0 {
		opts.Length = DefaultLength
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Rand == nil {
		opts.Rand = rand.Reader
	}
	return &Allocator{
		lookup:      lookup,
		length:      opts.Length,
		maxAttempts: opts.MaxAttempts,
		rand:        opts.Rand,
		logger:      logger.With().Str("component", "pin_allocator").Logger(),
	}
}

// Allocate returns a candidate that no stored set holds at read time. The
// result is not reserved; persist through Assign to get write-time safety.
func (a *Allocator) Allocate(ctx context.Context) (string, error) {
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		candidate, free, err := a.freeCandidate(ctx)
		if err != nil {
			return "", err
		}
		if free {
			return candidate, nil
		}
	}
	return "", a.exhausted()
}

// Assign allocates a PIN and hands it to persist. A persist error wrapping
// quizset.ErrDuplicatePIN counts as a collision and the next candidate is tried.
// Any other persist error is returned unchanged.
func (a *Allocator) Assign(ctx context.Context, persist func(pin string) error) (string, error) {
	for attempt := 0; attempt < a.maxAttempts; attempt++ {
		candidate, free, err := a.freeCandidate(ctx)
		if err != nil {
			return "", err
		}
		if !free {
			continue
		}

		err = persist(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, quizset.ErrDuplicatePIN) {
			return "", err
		}
		metrics.PINCollisions.Inc()
		a.logger.Debug().Str("pin", candidate).Int("attempt", attempt+1).Msg("pin taken at write time")
	}
	return "", a.exhausted()
}

func (a *Allocator) freeCandidate(ctx context.Context) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	candidate, err := a.generate()
	if err != nil {
		return "", false, err
	}
	_, err = a.lookup.SetByPIN(ctx, candidate)
	switch {
	case errors.Is(err, quizset.ErrNotFound):
		return candidate, true, nil
	case err != nil:
		return "", false, fmt.Errorf("check pin: %w", err)
	}
	metrics.PINCollisions.Inc()
	a.logger.Debug().Str("pin", candidate).Msg("pin taken at read time")
	return candidate, false, nil
}

func (a *Allocator) generate() (string, error) {
	b := make([]byte, a.length)
	if _, err := io.ReadFull(a.rand, b); err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}
	for i := range b {
		b[i] = Alphabet[int(b[i])%len(Alphabet)]
	}
	return string(b), nil
}

func (a *Allocator) exhausted() error {
	metrics.PINAllocationsExhausted.Inc()
	a.logger.Error().Int("attempts", a.maxAttempts).Msg("pin allocation exhausted")
	return quizset.ErrAllocationExhausted
}
