package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ComparisonEvent represents a scoring pipeline event
type ComparisonEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	TargetRef      string                 `json:"target_ref"`
	CandidateRef   string                 `json:"candidate_ref"`
	Score          float64                `json:"score,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of comparison event
type EventType string

const (
	// ComparisonStarted when scoring begins
	ComparisonStarted EventType = "comparison_started"
	// ComparisonCompleted when scoring finishes successfully
	ComparisonCompleted EventType = "comparison_completed"
	// ComparisonFailed when scoring fails
	ComparisonFailed EventType = "comparison_failed"
	// ImageFetched when an image is successfully fetched
	ImageFetched EventType = "image_fetched"
	// ImageFetchFailed when an image fetch fails
	ImageFetchFailed EventType = "image_fetch_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event ComparisonEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event ComparisonEvent)
}

// LoggingObserver logs comparison events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles comparison events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event ComparisonEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"target_ref":      event.TargetRef,
		"candidate_ref":   event.CandidateRef,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}

	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}

	if event.Metadata != nil {
		for k, v := range event.Metadata {
			fields[k] = v
		}
	}

	switch event.EventType {
	case ComparisonStarted:
		o.logger.WithFields(fields).Info("Image comparison started")
	case ComparisonCompleted:
		fields["score"] = event.Score
		o.logger.WithFields(fields).Info("Image comparison completed")
	case ComparisonFailed:
		o.logger.WithFields(fields).Error("Image comparison failed")
	case ImageFetched:
		o.logger.WithFields(fields).Debug("Image fetched successfully")
	case ImageFetchFailed:
		o.logger.WithFields(fields).Error("Image fetch failed")
	default:
		o.logger.WithFields(fields).Info("Comparison event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver collects metrics from comparison events
type MetricsObserver struct {
	mu                    sync.RWMutex
	totalComparisons      int64
	successfulComparisons int64
	failedComparisons     int64
	totalProcessingTime   time.Duration
	scoreSum              float64
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

// OnEvent handles comparison events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event ComparisonEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case ComparisonStarted:
		o.totalComparisons++
	case ComparisonCompleted:
		o.successfulComparisons++
		o.totalProcessingTime += event.ProcessingTime
		o.scoreSum += event.Score
	case ComparisonFailed:
		o.failedComparisons++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avgProcessingTime := time.Duration(0)
	avgScore := 0.0
	if o.successfulComparisons > 0 {
		avgProcessingTime = o.totalProcessingTime / time.Duration(o.successfulComparisons)
		avgScore = o.scoreSum / float64(o.successfulComparisons)
	}

	return map[string]interface{}{
		"total_comparisons":      o.totalComparisons,
		"successful_comparisons": o.successfulComparisons,
		"failed_comparisons":     o.failedComparisons,
		"total_processing_time":  o.totalProcessingTime,
		"avg_processing_time":    avgProcessingTime,
		"avg_score":              avgScore,
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() Subject {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers notifies all observers of an event
func (p *EventPublisher) NotifyObservers(ctx context.Context, event ComparisonEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	// Notify observers concurrently
	for _, observer := range observers {
		go func(obs Observer) {
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}
