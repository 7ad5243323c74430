//go:build integration

package trace_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"github.com/twmb/franz-go/pkg/kgo"

	"answerwire/internal/platform/kafka"
	"answerwire/internal/trace"
	id "answerwire/pkg/domain"
	"answerwire/pkg/testutil/containers"
)

type KafkaSinkSuite struct {
	suite.Suite
	brokers []string
}

func TestKafkaSinkSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaSinkSuite))
}

func (s *KafkaSinkSuite) SetupSuite() {
	s.brokers = containers.GetManager().GetRedpanda(s.T()).Brokers
}

func (s *KafkaSinkSuite) consumeOne(topic string) *kgo.Record {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(s.brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	s.Require().NoError(err)
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	fetches := client.PollFetches(ctx)
	s.Require().NoError(fetches.Err())
	records := fetches.Records()
	s.Require().NotEmpty(records)
	return records[0]
}

func (s *KafkaSinkSuite) TestAppendPublishesKeyedEvent() {
	ctx := context.Background()
	topic := "wiring.trace.events." + uuid.NewString()

	producer, err := kafka.NewProducer(ctx, s.brokers, topic)
	s.Require().NoError(err)
	defer producer.Close()

	sink := trace.NewKafkaSink(producer, nil)

	event := trace.Event{
		Kind:       trace.KindConfigRead,
		Timestamp:  time.Now().UTC(),
		TenantID:   id.TenantID(uuid.New()),
		CallID:     id.NewCallID(),
		Turn:       3,
		TraceRunID: id.NewTraceRunID(),
		Path:       "greeting.opening",
		Source:     "canonical",
		ValueHash:  "abc123",
	}
	s.Require().NoError(sink.Append(ctx, event))

	record := s.consumeOne(topic)
	s.Equal(event.TraceRunID.String(), string(record.Key))

	var got trace.Event
	s.Require().NoError(json.Unmarshal(record.Value, &got))
	s.Equal(trace.KindConfigRead, got.Kind)
	s.Equal(event.TenantID, got.TenantID)
	s.Equal(event.Path, got.Path)
	s.Equal(3, got.Turn)
}

func (s *KafkaSinkSuite) TestEnsureTopicIsIdempotent() {
	ctx := context.Background()
	topic := "wiring.trace.events." + uuid.NewString()

	first, err := kafka.NewProducer(ctx, s.brokers, topic)
	s.Require().NoError(err)
	first.Close()

	second, err := kafka.NewProducer(ctx, s.brokers, topic)
	s.Require().NoError(err)
	second.Close()
}
