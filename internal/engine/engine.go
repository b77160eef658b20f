// Package engine runs the verbatim-overlap detection pipeline: both
// documents are normalised and shingled, the reference document is
// winnowed into a compact fingerprint index fronted by a bloom gate, and
// the suspect document is scanned exhaustively against it. Confirmed
// matches are counted per phrase and ranked.
//
// A single Scan is strictly sequential and owns all of its data
// structures; nothing is shared or retained across scans.
package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/crosscheck-io/crosscheck/internal/engine/bloom"
	"github.com/crosscheck-io/crosscheck/internal/engine/fingerprint"
	"github.com/crosscheck-io/crosscheck/internal/engine/fptable"
	"github.com/crosscheck-io/crosscheck/internal/engine/rank"
	"github.com/crosscheck-io/crosscheck/internal/engine/tokenizer"
	"github.com/crosscheck-io/crosscheck/internal/engine/winnow"
	"github.com/crosscheck-io/crosscheck/pkg/config"
	pkgerrors "github.com/crosscheck-io/crosscheck/pkg/errors"
	"github.com/crosscheck-io/crosscheck/pkg/tracing"
)

// Report is the outcome of one scan. ScorePercent relates every matched
// shingle occurrence in the suspect document to the size of the
// reference's winnowed index, so a suspect that repeats matched phrases
// can legitimately score above 100.
type Report struct {
	ScorePercent    float64       `json:"score_percent"`
	TotalMatches    int           `json:"total_matches"`
	DistinctMatches int           `json:"distinct_matches"`
	IndexSize       int           `json:"index_size"`
	BloomRejects    int           `json:"bloom_rejects"`
	Ranked          []rank.Phrase `json:"ranked_phrases"`
}

// Engine is a configured, reusable scanner. It is safe for concurrent
// use: all per-scan state lives in Scan.
type Engine struct {
	cfg    config.EngineConfig
	logger *slog.Logger
}

// New validates cfg and returns an Engine.
func New(cfg config.EngineConfig) (*Engine, error) {
	if cfg.ShingleLen < 1 {
		return nil, fmt.Errorf("%w: shingle length must be >= 1, got %d",
			pkgerrors.ErrInvalidConfiguration, cfg.ShingleLen)
	}
	if cfg.WinnowWindow < 1 {
		return nil, fmt.Errorf("%w: winnow window must be >= 1, got %d",
			pkgerrors.ErrInvalidConfiguration, cfg.WinnowWindow)
	}
	if cfg.TopK < 1 {
		return nil, fmt.Errorf("%w: topK must be >= 1, got %d",
			pkgerrors.ErrInvalidConfiguration, cfg.TopK)
	}
	if cfg.BloomBits < 1 {
		return nil, fmt.Errorf("%w: bloom bits must be >= 1, got %d",
			pkgerrors.ErrInvalidConfiguration, cfg.BloomBits)
	}
	if cfg.IndexCapacity < 1 {
		return nil, fmt.Errorf("%w: index capacity must be >= 1, got %d",
			pkgerrors.ErrInvalidConfiguration, cfg.IndexCapacity)
	}
	return &Engine{
		cfg:    cfg,
		logger: slog.Default().With("component", "engine"),
	}, nil
}

// Config returns the engine's configuration.
func (e *Engine) Config() config.EngineConfig {
	return e.cfg
}

// Scan builds the reference index from reference, scans suspect against
// it, and returns the scored, ranked report. Documents too short to
// yield a single shingle produce a zero score and an empty ranking; only
// capacity overruns are errors.
func (e *Engine) Scan(ctx context.Context, reference, suspect string) (*Report, error) {
	n := e.cfg.ShingleLen

	_, buildSpan := tracing.StartChildSpan(ctx, "build_reference_index")
	gate, index, err := e.buildReferenceIndex(reference)
	buildSpan.End()
	if err != nil {
		return nil, fmt.Errorf("building reference index: %w", err)
	}

	_, scanSpan := tracing.StartChildSpan(ctx, "scan_suspect")
	defer scanSpan.End()

	tokensB, err := tokenizer.Tokenize(suspect, e.cfg.MaxTokens)
	if err != nil {
		return nil, fmt.Errorf("normalising suspect document: %w", err)
	}

	freq := fptable.NewFreqMap(e.cfg.IndexCapacity)
	rejects := 0
	matches := 0
	for i, fp := range fingerprint.Shingles(tokensB, n) {
		if !gate.Test(fp) {
			rejects++
			continue
		}
		if !index.Contains(fp) {
			// Bloom false positive; not a match.
			continue
		}
		matches++
		if err := freq.Record(fp, tokenizer.Phrase(tokensB, i, n)); err != nil {
			return nil, fmt.Errorf("tracking match frequency: %w", err)
		}
	}

	ranker := rank.New(e.cfg.TopK)
	for _, entry := range freq.Entries() {
		ranker.Offer(entry.Phrase, entry.Count)
	}

	report := &Report{
		ScorePercent:    score(matches, index.Len()),
		TotalMatches:    matches,
		DistinctMatches: freq.Len(),
		IndexSize:       index.Len(),
		BloomRejects:    rejects,
		Ranked:          ranker.Ranked(),
	}
	scanSpan.SetAttr("total_matches", matches)
	scanSpan.SetAttr("score_percent", report.ScorePercent)

	e.logger.Debug("scan complete",
		"index_size", report.IndexSize,
		"total_matches", report.TotalMatches,
		"distinct_matches", report.DistinctMatches,
		"bloom_rejects", report.BloomRejects,
		"score_percent", report.ScorePercent,
	)
	return report, nil
}

// buildReferenceIndex winnows the reference document's shingle
// fingerprints and loads the representatives into a fresh bloom gate and
// exact index. Both structures are read-only after this returns.
func (e *Engine) buildReferenceIndex(reference string) (*bloom.Gate, *fptable.Set, error) {
	gate := bloom.New(e.cfg.BloomBits)
	index := fptable.NewSet(e.cfg.IndexCapacity)

	tokens, err := tokenizer.Tokenize(reference, e.cfg.MaxTokens)
	if err != nil {
		return nil, nil, fmt.Errorf("normalising reference document: %w", err)
	}

	fps := fingerprint.Shingles(tokens, e.cfg.ShingleLen)
	for _, i := range winnow.Select(fps, e.cfg.WinnowWindow) {
		gate.Add(fps[i])
		if err := index.Insert(fps[i]); err != nil {
			return nil, nil, err
		}
	}
	return gate, index, nil
}

// score is the overlap percentage: confirmed match occurrences in the
// suspect over the reference's distinct representative count. A zero
// denominator (reference too short to winnow) scores 0 rather than
// faulting.
func score(totalMatches, indexSize int) float64 {
	if indexSize == 0 {
		return 0
	}
	return float64(totalMatches) / float64(indexSize) * 100
}
