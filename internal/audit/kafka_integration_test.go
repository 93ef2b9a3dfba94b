//go:build integration

package audit_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"spearow/internal/audit"
	"spearow/pkg/testutil/containers"
)

func Test_KafkaPublisher_ProducesEvent(t *testing.T) {
	ctx := context.Background()
	broker := containers.NewRedpandaContainer(t)

	const topic = "spearow.audit.test"

	adminClient, err := kgo.NewClient(kgo.SeedBrokers(broker.Broker))
	require.NoError(t, err)
	defer adminClient.Close()
	_, err = kadm.NewClient(adminClient).CreateTopic(ctx, 1, 1, nil, topic)
	require.NoError(t, err)

	pub, err := audit.NewKafkaPublisher([]string{broker.Broker}, topic)
	require.NoError(t, err)
	defer pub.Close()

	event := audit.Event{
		Timestamp: time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC),
		Subject:   "jane@example.com",
		Action:    audit.ActionReportGenerated,
		Category:  "latestBreaches",
		Format:    "json",
	}
	require.NoError(t, pub.Emit(ctx, event))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "jane@example.com", string(records[0].Key))

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, audit.ActionReportGenerated, got.Action)
	assert.Equal(t, "latestBreaches", got.Category)
	assert.True(t, event.Timestamp.Equal(got.Timestamp))
}

func Test_KafkaPublisher_RequiresTopic(t *testing.T) {
	_, err := audit.NewKafkaPublisher([]string{"localhost:9092"}, "")
	assert.Error(t, err)
}
