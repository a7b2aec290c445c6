// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package analysis runs the selected lenses over the session's sources and
// shapes each agent reply into a lens result.
//
// The Dispatcher builds the combined source text once, issues one agent
// call per distinct lens concurrently and waits for all of them. Any failed
// call fails the run as a whole; callers never see a partial result map.
// The Normalizer turns each reply into its canonical display string and
// applies the lens-specific shaping (coverage table, quiz, concept map).
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/knowledge-agent/internal/agent"
	"github.com/pdiddy/knowledge-agent/internal/prompt"
	"github.com/pdiddy/knowledge-agent/pkg/types"
)

var (
	// ErrNoSources is returned when a run is requested with no sources.
	ErrNoSources = errors.New("add at least one source before analyzing")

	// ErrNoLenses is returned when a run is requested with no lens selected.
	ErrNoLenses = errors.New("select at least one lens")
)

// Validate checks the preconditions of a run in the order the user meets
// them: API key, then sources, then lenses.
func Validate(apiKey string, sources []types.Source, lenses []types.Lens) error {
	if strings.TrimSpace(apiKey) == "" {
		return agent.ErrNoAPIKey
	}
	if len(sources) == 0 {
		return ErrNoSources
	}
	if len(lenses) == 0 {
		return ErrNoLenses
	}
	for _, l := range lenses {
		if !l.Valid() {
			return fmt.Errorf("unknown lens %q", l)
		}
	}
	return nil
}

// Dispatcher fans lens prompts out to an agent team.
type Dispatcher struct {
	Team       agent.Team
	Normalizer Normalizer
	Logger     *zap.Logger
}

// NewDispatcher returns a dispatcher for team. A nil logger is replaced by
// a no-op logger.
func NewDispatcher(team agent.Team, n Normalizer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{Team: team, Normalizer: n, Logger: logger}
}

// Dispatch runs one agent call per distinct lens and returns the normalized
// results keyed by lens. The key set equals the set of lenses requested.
// When any call fails the other calls still run to completion, and Dispatch
// returns the first error with a nil map. Dispatch imposes no deadline of
// its own; ctx is passed through to every agent call.
func (d *Dispatcher) Dispatch(ctx context.Context, sources []types.Source, lenses []types.Lens, length types.OutputLength) (types.AnalysisResult, error) {
	if len(sources) == 0 {
		return nil, ErrNoSources
	}
	lenses = uniqueLenses(lenses)
	if len(lenses) == 0 {
		return nil, ErrNoLenses
	}
	if length == "" {
		length = types.LengthStandard
	}

	logger := d.logger()
	combined := prompt.Combine(sources)
	logger.Info("dispatching analysis",
		zap.Int("sources", len(sources)),
		zap.Int("lenses", len(lenses)),
		zap.String("length", string(length)))

	var (
		mu      sync.Mutex
		results = make(types.AnalysisResult, len(lenses))
		g       errgroup.Group
	)
	for _, lens := range lenses {
		lens := lens
		g.Go(func() error {
			start := time.Now()
			resp, err := d.Team.Run(ctx, prompt.BuildCombined(combined, lens, length))
			if err != nil {
				logger.Warn("lens failed", zap.String("lens", string(lens)), zap.Error(err))
				return fmt.Errorf("%s: %w", lens.Name(), err)
			}

			res := d.Normalizer.Normalize(lens, resp)
			if res.Warning != "" {
				logger.Warn("lens decode warning", zap.String("lens", string(lens)), zap.String("warning", res.Warning))
			}
			logger.Debug("lens done",
				zap.String("lens", string(lens)),
				zap.String("kind", resp.Kind.String()),
				zap.Duration("elapsed", time.Since(start)))

			mu.Lock()
			results[lens] = res
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (d *Dispatcher) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

// uniqueLenses drops repeated lenses, keeping first-seen order.
func uniqueLenses(lenses []types.Lens) []types.Lens {
	seen := make(map[types.Lens]bool, len(lenses))
	out := make([]types.Lens, 0, len(lenses))
	for _, l := range lenses {
		if seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}
