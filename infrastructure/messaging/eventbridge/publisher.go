// Package eventbridge publishes domain events to an EventBridge bus
package eventbridge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"go.uber.org/zap"

	"github.com/Gaushik-Adhiban/Circuit-Simulation/domain/events"
)

// Publisher sends domain events to EventBridge
type Publisher struct {
	client  *eventbridge.Client
	busName string
	source  string
	logger  *zap.Logger
}

// NewPublisher creates a new EventBridge publisher
func NewPublisher(client *eventbridge.Client, busName, source string, logger *zap.Logger) *Publisher {
	return &Publisher{
		client:  client,
		busName: busName,
		source:  source,
		logger:  logger,
	}
}

// eventDetail is the wire envelope for one domain event
type eventDetail struct {
	AggregateID string      `json:"aggregate_id"`
	EventType   string      `json:"event_type"`
	Timestamp   string      `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// Publish sends a batch of domain events to the bus. EventBridge caps
// PutEvents at 10 entries per call, so larger batches are split.
func (p *Publisher) Publish(ctx context.Context, evts []events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	entries := make([]types.PutEventsRequestEntry, 0, len(evts))
	for _, evt := range evts {
		detail, err := json.Marshal(eventDetail{
			AggregateID: evt.GetAggregateID(),
			EventType:   evt.GetEventType(),
			Timestamp:   evt.GetTimestamp().UTC().Format(time.RFC3339),
			Payload:     evt,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", evt.GetEventType(), err)
		}

		entries = append(entries, types.PutEventsRequestEntry{
			EventBusName: aws.String(p.busName),
			Source:       aws.String(p.source),
			DetailType:   aws.String(evt.GetEventType()),
			Detail:       aws.String(string(detail)),
		})
	}

	for start := 0; start < len(entries); start += 10 {
		end := start + 10
		if end > len(entries) {
			end = len(entries)
		}

		out, err := p.client.PutEvents(ctx, &eventbridge.PutEventsInput{
			Entries: entries[start:end],
		})
		if err != nil {
			p.logger.Error("failed to publish events", zap.Error(err))
			return fmt.Errorf("failed to publish events: %w", err)
		}
		if out.FailedEntryCount > 0 {
			p.logger.Warn("some events failed to publish",
				zap.Int32("failed", out.FailedEntryCount),
				zap.Int("batch", end-start),
			)
		}
	}

	p.logger.Debug("published domain events", zap.Int("count", len(evts)))
	return nil
}
