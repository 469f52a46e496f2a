package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"exusiai.dev/drawbank/internal/model"
	"exusiai.dev/drawbank/internal/pkg/bankerr"
	"exusiai.dev/drawbank/internal/pkg/cache"
	"exusiai.dev/drawbank/internal/pkg/chart"
)

// figureTTL matches how long clients may cache a served figure.
const figureTTL = time.Hour

// Gallery keeps one parsed tally in memory and draws figures of it on demand.
// Figures are memoized per query and load.
type Gallery struct {
	Draw *Draw

	figures *cache.Memo[*chart.Figure]

	mu    sync.RWMutex
	opts  model.DrawOptions
	tally *model.Tally
	err   error

	loadedAt time.Time
}

func NewGallery(draw *Draw) *Gallery {
	return &Gallery{
		Draw:    draw,
		figures: cache.NewMemo[*chart.Figure](figureTTL),
	}
}

// Load resolves and parses the sources of opts. Until it returns, figures are not
// available.
func (s *Gallery) Load(ctx context.Context, opts model.DrawOptions) error {
	tally, err := s.Draw.Tally(ctx, opts)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = opts
	s.tally, s.err = tally, err
	if err != nil {
		return err
	}
	s.loadedAt = time.Now()
	s.figures.Flush()

	log.Info().
		Int("rows", tally.Rows).
		Int("groups", tally.Groups.Len()).
		Msg("gallery loaded")
	return nil
}

// Reload parses the sources of the last successful Load again. On failure the
// loaded tally stays in place.
func (s *Gallery) Reload(ctx context.Context) error {
	s.mu.RLock()
	opts, loaded := s.opts, s.tally != nil
	s.mu.RUnlock()
	if !loaded {
		return bankerr.ErrNotReady
	}

	tally, err := s.Draw.Tally(ctx, opts)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tally, s.err = tally, nil
	s.loadedAt = time.Now()
	s.figures.Flush()
	return nil
}

// Status returns nil once a tally is loaded, or the reason it is not.
func (s *Gallery) Status() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.err != nil {
		return s.err
	}
	if s.tally == nil {
		return bankerr.ErrNotReady
	}
	return nil
}

// LoadedAt returns when the tally was loaded, or the zero time.
func (s *Gallery) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}

// Figure draws the loaded tally. Unset query fields fall back to the loaded options.
// The returned figure is shared between callers and must not be modified.
func (s *Gallery) Figure(q model.SeriesQuery) (*chart.Figure, error) {
	s.mu.RLock()
	opts, tally, loadErr, loadedAt := s.opts, s.tally, s.err, s.loadedAt
	s.mu.RUnlock()
	if loadErr != nil {
		return nil, loadErr
	}
	if tally == nil {
		return nil, bankerr.ErrNotReady
	}

	topN, cumulative := opts.TopN, opts.Cumulative
	if q.Most != nil {
		topN = *q.Most
	}
	if q.Cumulative != nil {
		cumulative = *q.Cumulative
	}

	key := fmt.Sprintf("%d/%t/%d", topN, cumulative, loadedAt.UnixNano())
	return s.figures.MutexGetSet(key, func() (*chart.Figure, error) {
		fig, _, err := s.Draw.Figure(tally, opts.Section, topN, cumulative)
		return fig, err
	})
}
