// Permahub Affinity - Preference Learning and Recommendation Scoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/permahub-affinity

package recommend

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/permahub-affinity/internal/logging"
	"github.com/tomtom215/permahub-affinity/internal/metrics"
	"github.com/tomtom215/permahub-affinity/internal/models"
	"github.com/tomtom215/permahub-affinity/internal/preference"
)

// Engine produces ranked recommendations for a session. It holds no per-user
// state and is safe for concurrent use.
type Engine struct {
	catalog    Catalog
	procedures Procedures
	cfg        Config
	logger     zerolog.Logger
	now        func() time.Time

	generators []generator
}

// generator is one strategy in the fan-out.
type generator struct {
	strategy models.Strategy
	share    float64
	run      func(ctx context.Context, sess Session, n int) ([]models.Candidate, error)
}

// NewEngine creates an engine. procedures is usually wrapped with
// NewGuardedProcedures.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(catalog Catalog, procedures Procedures, cfg Config, logger zerolog.Logger) *Engine {
	e := &Engine{
		catalog:    catalog,
		procedures: procedures,
		cfg:        cfg,
		logger:     logger.With().Str("component", "recommend").Logger(),
		now:        time.Now,
	}
	e.generators = []generator{
		{strategy: models.StrategyContent, share: ContentShare, run: e.contentBased},
		{strategy: models.StrategyCollaborative, share: CollaborativeShare, run: e.collaborative},
		{strategy: models.StrategyTrending, share: TrendingShare, run: e.trending},
	}
	return e
}

// GetRecommendations returns at most count ranked candidates. Generator
// failures are reported in the result, never returned. A count of zero or
// less yields an empty result without running any generator.
func (e *Engine) GetRecommendations(ctx context.Context, sess Session, count int) (*Result, error) {
	if count <= 0 {
		return &Result{UserID: sess.UserID(), Items: []models.Candidate{}}, nil
	}
	start := time.Now()
	ctx = logging.ContextWithUserID(ctx, sess.UserID())
	log := logging.CtxWith(ctx).Str("component", "recommend").Logger()

	runs := e.runGenerators(ctx, sess, count)

	result := &Result{
		UserID:     sess.UserID(),
		Strategies: make([]StrategyOutcome, len(runs)),
	}
	var candidates []models.Candidate
	for i := range runs {
		result.Strategies[i] = runs[i].outcome
		if runs[i].outcome.Failed() {
			result.Partial = true
			log.Warn().
				Str("strategy", string(runs[i].outcome.Strategy)).
				Err(runs[i].outcome.Err).
				Msg("generator failed, continuing without it")
			continue
		}
		candidates = append(candidates, runs[i].candidates...)
	}
	result.TotalCandidates = len(candidates)

	ranked := rankCandidates(candidates)
	if len(ranked) > count {
		ranked = ranked[:count]
	}
	for i := range ranked {
		ranked[i].Reason = Reason(&ranked[i])
	}
	result.Items = ranked

	elapsed := time.Since(start)
	metrics.RecordRecommendation(elapsed, len(ranked))
	log.Debug().
		Int("requested", count).
		Int("candidates", result.TotalCandidates).
		Int("returned", len(ranked)).
		Bool("partial", result.Partial).
		Dur("duration", elapsed).
		Msg("recommendations generated")
	return result, nil
}

// strategyCount returns ceil(share*count).
func strategyCount(count int, share float64) int {
	return int(math.Ceil(float64(count) * share))
}

type generatorRun struct {
	outcome    StrategyOutcome
	candidates []models.Candidate
}

// runGenerators runs every generator in parallel, each under its own timeout.
func (e *Engine) runGenerators(ctx context.Context, sess Session, count int) []generatorRun {
	runs := make([]generatorRun, len(e.generators))
	var wg sync.WaitGroup

	for i, g := range e.generators {
		wg.Add(1)
		go func(idx int, g generator) {
			defer wg.Done()
			runs[idx] = e.runGenerator(ctx, sess, g, strategyCount(count, g.share))
		}(i, g)
	}

	wg.Wait()
	return runs
}

func (e *Engine) runGenerator(ctx context.Context, sess Session, g generator, n int) generatorRun {
	run := generatorRun{outcome: StrategyOutcome{Strategy: g.strategy, Requested: n}}
	start := time.Now()

	genCtx, cancel := context.WithTimeout(ctx, e.cfg.GeneratorTimeout)
	defer cancel()

	candidates, err := g.run(genCtx, sess, n)
	run.outcome.DurationMS = time.Since(start).Milliseconds()
	metrics.RecordGenerator(string(g.strategy), len(candidates), err)
	if err != nil {
		run.outcome.Err = fmt.Errorf("%w: %s: %w", preference.ErrGeneratorFailed, g.strategy, err)
		run.outcome.Error = run.outcome.Err.Error()
		return run
	}

	for i := range candidates {
		candidates[i].Strategy = g.strategy
	}
	run.candidates = candidates
	run.outcome.Returned = len(candidates)
	return run
}
