package models

// CompareRequest asks the service to score candidate against target.
// Refs are resolved by the configured storage backend (URL, blob or path).
type CompareRequest struct {
	TargetRef    string `json:"target_ref" binding:"required"`
	CandidateRef string `json:"candidate_ref" binding:"required"`
	Fast         bool   `json:"fast,omitempty"`
	Explain      bool   `json:"explain,omitempty"`
}

// CompareResponse wraps a similarity report with optional explanations.
type CompareResponse struct {
	Report            *SimilarityReport `json:"report"`
	Explanations      []string          `json:"explanations,omitempty"`
	ProcessingTimeSec float64           `json:"processing_time_sec"`
}

// GuessRequest submits one game attempt: a guessed prompt and the image
// generated from it.
type GuessRequest struct {
	SessionID    string `json:"session_id" binding:"required"`
	Prompt       string `json:"prompt" binding:"required"`
	CandidateRef string `json:"candidate_ref" binding:"required"`
}

// GuessResponse reports the outcome of a game attempt.
type GuessResponse struct {
	Attempt      int               `json:"attempt"`
	Score        float64           `json:"score"`
	BestScore    float64           `json:"best_score"`
	Victory      bool              `json:"victory"`
	Duplicate    bool              `json:"duplicate,omitempty"`
	PromptMatch  float64           `json:"prompt_match"`
	Feedback     string            `json:"feedback"`
	Report       *SimilarityReport `json:"report"`
	Explanations []string          `json:"explanations,omitempty"`
}

// StartSessionRequest begins a game session against a catalog target.
type StartSessionRequest struct {
	TargetID string `json:"target_id" binding:"required"`
}

// StartSessionResponse returns the new session and its target metadata.
type StartSessionResponse struct {
	SessionID  string  `json:"session_id"`
	TargetID   string  `json:"target_id"`
	TargetName string  `json:"target_name"`
	Difficulty string  `json:"difficulty"`
	WinScore   float64 `json:"win_score"`
	Hint       string  `json:"hint,omitempty"`
}

// ErrorResponse is the JSON error body returned by the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
