package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/clinicops/clinic-api/internal/repository"
	"github.com/clinicops/clinic-api/pkg/logger"
	"github.com/clinicops/clinic-api/pkg/messaging"
	"github.com/clinicops/clinic-api/pkg/metrics"
)

type OutboxProcessorConfig struct {
	BatchSize    int
	PollInterval time.Duration
	Retention    time.Duration
}

// OutboxProcessor drains pending outbox events to the message broker and
// prunes processed rows past their retention.
type OutboxProcessor struct {
	repo    repository.OutboxRepository
	broker  messaging.Broker
	config  OutboxProcessorConfig
	logger  *logger.Logger
	metrics *metrics.Metrics
}

func NewOutboxProcessor(
	repo repository.OutboxRepository,
	broker messaging.Broker,
	config OutboxProcessorConfig,
	logger *logger.Logger,
	metrics *metrics.Metrics,
) *OutboxProcessor {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.PollInterval <= 0 {
		config.PollInterval = 5 * time.Second
	}
	if config.Retention <= 0 {
		config.Retention = 24 * time.Hour
	}

	return &OutboxProcessor{
		repo:    repo,
		broker:  broker,
		config:  config,
		logger:  logger,
		metrics: metrics,
	}
}

func (p *OutboxProcessor) Start(ctx context.Context) {
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	p.logger.Info("starting outbox processor")

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("shutting down outbox processor")
			return
		case <-ticker.C:
			if err := p.processEvents(ctx); err != nil {
				p.logger.Error(err, "failed to process outbox events")
			}
			if _, err := p.repo.DeleteProcessedBefore(ctx, time.Now().Add(-p.config.Retention)); err != nil {
				p.logger.Error(err, "failed to prune processed outbox events")
			}
		}
	}
}

func (p *OutboxProcessor) processEvents(ctx context.Context) error {
	timer := prometheus.NewTimer(p.metrics.OutboxProcessingLatency)
	defer timer.ObserveDuration()

	events, err := p.repo.GetPendingEventsWithLock(ctx, p.config.BatchSize)
	if err != nil {
		return fmt.Errorf("failed to get pending events: %w", err)
	}

	for _, event := range events {
		if err := p.broker.Publish(ctx, event.EventType, event.Payload); err != nil {
			p.metrics.OutboxEventsFailed.Inc()
			p.logger.Error(err, "failed to publish event",
				"event_id", event.ID.String(),
				"event_type", event.EventType)
			if markErr := p.repo.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				p.logger.Error(markErr, "failed to mark event failed", "event_id", event.ID.String())
			}
			continue
		}

		if err := p.repo.MarkProcessed(ctx, event.ID); err != nil {
			p.logger.Error(err, "failed to mark event processed", "event_id", event.ID.String())
			continue
		}
		p.metrics.OutboxEventsProcessed.Inc()
	}

	return nil
}
