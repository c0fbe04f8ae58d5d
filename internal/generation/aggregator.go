// Package generation runs the analysis and image branches for a completed
// quiz and reconciles their outcomes into a single Result.
package generation

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/analysis"
	"github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/quiz"
)

// Analyzer produces the narrative half of a Result.
type Analyzer interface {
	Analyze(ctx context.Context, labels []string) (analysis.Analysis, error)
}

// ImageGenerator produces the moodboard image URL.
type ImageGenerator interface {
	Generate(ctx context.Context, styleKeywords, labels, visuals []string) (string, error)
}

// Aggregator joins the two generation branches.
type Aggregator struct {
	analyzer Analyzer
	images   ImageGenerator
	logger   zerolog.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(a Analyzer, img ImageGenerator, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		analyzer: a,
		images:   img,
		logger:   logger.With().Str("component", "generation").Logger(),
	}
}

// Generate runs both branches concurrently and waits for both to settle.
// A failure in one branch does not cancel the other. If either fails the
// returned Result is FailureResult and the error joins every branch error.
func (g *Aggregator) Generate(ctx context.Context, sel quiz.Selections) (Result, error) {
	p := quiz.Project(sel)

	var (
		an                  analysis.Analysis
		imageURL            string
		analysisErr, imgErr error
	)

	// Branch errors are captured rather than returned so the group never
	// short-circuits; both outcomes are needed.
	var eg errgroup.Group
	eg.Go(func() error {
		an, analysisErr = g.analyzer.Analyze(ctx, p.Labels)
		return nil
	})
	eg.Go(func() error {
		imageURL, imgErr = g.images.Generate(ctx, p.StyleKeywords, p.Labels, p.VisualPrompts)
		return nil
	})
	_ = eg.Wait()

	if analysisErr != nil || imgErr != nil {
		var errs []error
		if analysisErr != nil {
			errs = append(errs, fmt.Errorf("analysis: %w", analysisErr))
		}
		if imgErr != nil {
			errs = append(errs, fmt.Errorf("image: %w", imgErr))
		}
		err := errors.Join(errs...)
		g.logger.Error().Err(err).Msg("generation failed, using failure result")
		return FailureResult, err
	}

	g.logger.Info().Str("profile_name", an.ProfileName).Msg("generation complete")
	return Result{
		ProfileName:  an.ProfileName,
		AnalysisText: an.Text,
		ImageURL:     imageURL,
	}, nil
}
