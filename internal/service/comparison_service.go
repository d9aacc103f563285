package service

import (
	"context"
	"sync"
	"time"

	"go-image-similarity/internal/catalog"
	"go-image-similarity/internal/engine"
	apperrors "go-image-similarity/internal/errors"
	"go-image-similarity/internal/game"
	"go-image-similarity/internal/logger"
	"go-image-similarity/internal/observer"
	"go-image-similarity/internal/raster"
	"go-image-similarity/internal/storage"
	"go-image-similarity/internal/strategy"
	"go-image-similarity/pkg/models"
	"go-image-similarity/pkg/validation"
)

// ComparisonService defines the interface for image comparison and the
// prompt-guessing game built on top of it.
type ComparisonService interface {
	Compare(ctx context.Context, req models.CompareRequest) (*models.CompareResponse, error)
	StartSession(ctx context.Context, req models.StartSessionRequest) (*models.StartSessionResponse, error)
	Guess(ctx context.Context, req models.GuessRequest) (*models.GuessResponse, error)
	ListTargets() []catalog.Target
}

// comparisonService implements ComparisonService
type comparisonService struct {
	fetcher   storage.ImageFetcher
	full      strategy.ComparisonStrategy
	fast      strategy.ComparisonStrategy
	catalog   *catalog.Catalog
	publisher observer.Subject
	extractor game.TextExtractor
	inputs    *validation.InputValidator
	winScore  float64
	log       *logger.Logger

	mu       sync.Mutex
	sessions map[string]*game.Session
}

// NewComparisonService creates a comparison service. A nil extractor
// disables embedded-text matching; a winScore of 0 selects the default.
func NewComparisonService(
	fetcher storage.ImageFetcher,
	full strategy.ComparisonStrategy,
	fast strategy.ComparisonStrategy,
	targets *catalog.Catalog,
	publisher observer.Subject,
	extractor game.TextExtractor,
	winScore float64,
	log *logger.Logger,
) ComparisonService {
	if log == nil {
		log = logger.NewLogger()
	}
	if winScore <= 0 {
		winScore = game.DefaultWinScore
	}
	return &comparisonService{
		fetcher:   fetcher,
		full:      full,
		fast:      fast,
		catalog:   targets,
		publisher: publisher,
		extractor: extractor,
		inputs:    validation.NewInputValidator(),
		winScore:  winScore,
		log:       log,
		sessions:  make(map[string]*game.Session),
	}
}

// Compare fetches both refs, scores the candidate against the target and
// returns the full report.
func (s *comparisonService) Compare(ctx context.Context, req models.CompareRequest) (*models.CompareResponse, error) {
	start := time.Now()
	s.notify(ctx, observer.ComparisonEvent{
		EventType:    observer.ComparisonStarted,
		Timestamp:    start,
		TargetRef:    req.TargetRef,
		CandidateRef: req.CandidateRef,
	})

	report, err := s.scorePair(ctx, req.TargetRef, req.CandidateRef, req.Fast)
	if err != nil {
		s.notify(ctx, observer.ComparisonEvent{
			EventType:      observer.ComparisonFailed,
			Timestamp:      time.Now(),
			TargetRef:      req.TargetRef,
			CandidateRef:   req.CandidateRef,
			ProcessingTime: time.Since(start),
			ErrorMessage:   err.Error(),
		})
		return nil, err
	}

	elapsed := time.Since(start)
	s.notify(ctx, observer.ComparisonEvent{
		EventType:      observer.ComparisonCompleted,
		Timestamp:      time.Now(),
		TargetRef:      req.TargetRef,
		CandidateRef:   req.CandidateRef,
		Score:          report.Combined,
		ProcessingTime: elapsed,
		Success:        true,
	})

	resp := &models.CompareResponse{
		Report:            report,
		ProcessingTimeSec: elapsed.Seconds(),
	}
	if req.Explain {
		resp.Explanations = engine.Explain(report)
	}
	return resp, nil
}

// StartSession begins a game session against a catalog target.
func (s *comparisonService) StartSession(ctx context.Context, req models.StartSessionRequest) (*models.StartSessionResponse, error) {
	target, err := s.catalog.Get(req.TargetID)
	if err != nil {
		return nil, apperrors.NewNotFoundError("unknown target", err)
	}

	session := game.NewSession(target, game.WinScoreFor(target.Difficulty, s.winScore))
	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.log.WithFields(map[string]interface{}{
		"session_id": session.ID,
		"target_id":  target.ID,
		"difficulty": target.Difficulty,
	}).Info("Game session started")

	return &models.StartSessionResponse{
		SessionID:  session.ID,
		TargetID:   target.ID,
		TargetName: target.Name,
		Difficulty: target.Difficulty,
		WinScore:   session.WinScore,
		Hint:       target.Hint(1),
	}, nil
}

// Guess scores one game attempt: the candidate image against the
// session's target image, plus the guessed prompt against the target
// description.
func (s *comparisonService) Guess(ctx context.Context, req models.GuessRequest) (*models.GuessResponse, error) {
	s.mu.Lock()
	session, ok := s.sessions[req.SessionID]
	s.mu.Unlock()
	if !ok {
		return nil, apperrors.NewNotFoundError("unknown session", nil)
	}

	candidate, err := s.fetchValidated(ctx, req.CandidateRef)
	if err != nil {
		return nil, err
	}
	target, err := s.fetchValidated(ctx, session.Target.Ref)
	if err != nil {
		return nil, err
	}

	report, err := strategy.NewComparisonContext(s.full).ExecuteComparison(target, candidate)
	if err != nil {
		return nil, apperrors.NewProcessingError("comparison failed", err)
	}

	promptMatch := game.PromptMatch(req.Prompt, session.Target.Description)
	if promptMatch < 1 && s.extractor != nil {
		// Text rendered into the image can carry the prompt too.
		if m := game.EmbeddedTextMatch(s.extractor, candidate, session.Target.Description); m > promptMatch {
			promptMatch = m
		}
	}

	attempt := session.RecordAttempt(req.Prompt, candidate, report, promptMatch)

	resp := &models.GuessResponse{
		Attempt:      attempt.Number,
		Score:        attempt.Score,
		BestScore:    session.BestScore(),
		Victory:      session.Victory(),
		Duplicate:    attempt.Duplicate,
		PromptMatch:  attempt.PromptMatch,
		Feedback:     game.Feedback(attempt.Score, attempt.Number),
		Report:       report,
		Explanations: engine.Explain(report),
	}
	return resp, nil
}

// ListTargets returns the challenge catalog.
func (s *comparisonService) ListTargets() []catalog.Target {
	return s.catalog.All()
}

// scorePair fetches both images and runs the selected strategy.
func (s *comparisonService) scorePair(ctx context.Context, targetRef, candidateRef string, fast bool) (*models.SimilarityReport, error) {
	target, err := s.fetchValidated(ctx, targetRef)
	if err != nil {
		return nil, err
	}
	candidate, err := s.fetchValidated(ctx, candidateRef)
	if err != nil {
		return nil, err
	}

	if err := s.inputs.ValidatePair(target, candidate); err != nil {
		return nil, err
	}

	scorer := strategy.NewComparisonContext(s.full)
	if fast && s.fast != nil {
		scorer.SetStrategy(s.fast)
	}
	s.log.WithField("strategy", scorer.GetCurrentStrategy()).Debug("Scoring image pair")

	report, err := scorer.ExecuteComparison(target, candidate)
	if err != nil {
		return nil, apperrors.NewProcessingError("comparison failed", err)
	}
	return report, nil
}

// fetchValidated resolves one ref through the storage backend and
// validates the decoded image.
func (s *comparisonService) fetchValidated(ctx context.Context, ref string) (*raster.Image, error) {
	if ref == "" {
		return nil, apperrors.NewValidationError("image ref cannot be empty", nil)
	}

	img, err := s.fetcher.FetchImage(ctx, ref)
	if err != nil {
		s.notify(ctx, observer.ComparisonEvent{
			EventType:    observer.ImageFetchFailed,
			Timestamp:    time.Now(),
			CandidateRef: ref,
			ErrorMessage: err.Error(),
		})
		if apperrors.IsType(err, apperrors.ErrorTypeInvalidInput) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, apperrors.NewTimeoutError("image fetch canceled", err)
		}
		return nil, apperrors.NewNetworkError("failed to fetch image", err)
	}

	s.notify(ctx, observer.ComparisonEvent{
		EventType:    observer.ImageFetched,
		Timestamp:    time.Now(),
		CandidateRef: ref,
		Success:      true,
	})

	if err := s.inputs.ValidateImage(img); err != nil {
		return nil, err
	}
	return img, nil
}

func (s *comparisonService) notify(ctx context.Context, event observer.ComparisonEvent) {
	if s.publisher != nil {
		s.publisher.NotifyObservers(ctx, event)
	}
}
