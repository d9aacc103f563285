// Package game implements prompt-guessing sessions: a player submits
// prompts and generated images against a catalog target, and each
// attempt is scored by the similarity engine.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"sync"

	"github.com/corona10/goimagehash"

	"go-image-similarity/internal/catalog"
	"go-image-similarity/internal/raster"
	"go-image-similarity/pkg/models"
)

// DefaultWinScore is the combined score that ends a session in victory.
const DefaultWinScore = 0.85

// duplicateHashDistance is the max dHash distance at which a new guess
// counts as a resubmission of an earlier one.
const duplicateHashDistance = 5

// Attempt records one scored guess.
type Attempt struct {
	Number      int
	Prompt      string
	Score       float64
	PromptMatch float64
	Duplicate   bool
	Report      *models.SimilarityReport
}

// Session tracks progress against one target. Safe for concurrent use.
type Session struct {
	mu sync.Mutex

	ID       string
	Target   *catalog.Target
	WinScore float64

	attempts   []Attempt
	bestScore  float64
	victory    bool
	seenHashes []*goimagehash.ImageHash
}

// NewSession starts a session against a target. A winScore of 0 selects
// the default threshold.
func NewSession(target *catalog.Target, winScore float64) *Session {
	if winScore <= 0 {
		winScore = DefaultWinScore
	}
	return &Session{
		ID:       newSessionID(),
		Target:   target,
		WinScore: winScore,
	}
}

// WinScoreFor resolves the win threshold for a target difficulty. An
// explicit non-default base overrides the per-difficulty defaults:
// harder targets are harder to reproduce, so their bar sits lower.
func WinScoreFor(difficulty string, base float64) float64 {
	if base > 0 && base != DefaultWinScore {
		return base
	}
	switch difficulty {
	case catalog.DifficultyMedium:
		return 0.82
	case catalog.DifficultyHard:
		return 0.80
	default:
		return DefaultWinScore
	}
}

func newSessionID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Entropy exhaustion is not survivable; fall back to a fixed id.
		return "session-0"
	}
	return hex.EncodeToString(buf[:])
}

// RecordAttempt registers a scored guess and returns the stored attempt.
// The candidate image is hashed to flag duplicate submissions; duplicate
// attempts still count but are marked so callers can tell the player.
func (s *Session) RecordAttempt(prompt string, candidate *raster.Image, report *models.SimilarityReport, promptMatch float64) Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()

	attempt := Attempt{
		Number:      len(s.attempts) + 1,
		Prompt:      prompt,
		Score:       report.Combined,
		PromptMatch: promptMatch,
		Report:      report,
	}

	if hash, err := goimagehash.DifferenceHash(candidate.ToImage()); err == nil {
		for _, seen := range s.seenHashes {
			if dist, err := hash.Distance(seen); err == nil && dist <= duplicateHashDistance {
				attempt.Duplicate = true
				break
			}
		}
		s.seenHashes = append(s.seenHashes, hash)
	}

	s.attempts = append(s.attempts, attempt)
	if attempt.Score > s.bestScore {
		s.bestScore = attempt.Score
	}
	if attempt.Score >= s.WinScore {
		s.victory = true
	}
	return attempt
}

// BestScore returns the highest combined score so far.
func (s *Session) BestScore() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bestScore
}

// Victory reports whether any attempt reached the win threshold.
func (s *Session) Victory() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.victory
}

// Attempts returns a copy of the attempt history.
func (s *Session) Attempts() []Attempt {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Attempt, len(s.attempts))
	copy(out, s.attempts)
	return out
}

// Feedback renders the coaching line for a score, escalating the advice
// as attempts accumulate.
func Feedback(score float64, attempt int) string {
	switch {
	case score >= 0.9:
		return "Outstanding! Nearly perfect match!"
	case score >= 0.8:
		return "Excellent! You're very close!"
	case score >= 0.7:
		return "Great work! Fine-tune your description."
	case score >= 0.6:
		return "Good progress! Add more specific details."
	case score >= 0.4:
		return "Fair attempt! Focus on key visual elements."
	}

	feedback := "Keep trying! "
	switch {
	case attempt <= 2:
		feedback += "Analyze the target image more carefully."
	case attempt <= 4:
		feedback += "Think about colors, shapes, and composition."
	default:
		feedback += "Try a completely different approach."
	}
	return feedback
}
