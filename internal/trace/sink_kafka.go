package trace

import (
	"context"
	"encoding/json"
	"fmt"

	"answerwire/internal/platform/kafka"
	tracemetrics "answerwire/internal/trace/metrics"
)

// KafkaSink appends trace events to the Kafka trace topic. Kafka is the
// source of truth for the trace stream; the analytics pipeline and the
// evidence tooling consume from there.
type KafkaSink struct {
	producer *kafka.Producer
	metrics  *tracemetrics.Metrics
}

// NewKafkaSink wraps a connected producer.
func NewKafkaSink(producer *kafka.Producer, m *tracemetrics.Metrics) *KafkaSink {
	return &KafkaSink{producer: producer, metrics: m}
}

// Append publishes the event keyed by trace-run id so all events of one call
// land in one partition, preserving order for downstream joins.
func (s *KafkaSink) Append(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal trace event: %w", err)
	}
	if err := s.producer.Produce(ctx, []byte(event.TraceRunID.String()), payload); err != nil {
		if s.metrics != nil {
			s.metrics.IncrementSinkError()
		}
		return fmt.Errorf("produce trace event: %w", err)
	}
	return nil
}
