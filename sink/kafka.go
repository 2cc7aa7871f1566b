package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/IBM/sarama"

	"github.com/godamri/helix-audit/engine"
)

// Kafka publishes flushed entries to a topic, keyed by tracking id so
// one record's trail stays ordered within a partition.
type Kafka struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafka(brokers []string, topic string) (*Kafka, error) {
	if topic == "" {
		topic = "system.audit.entries"
	}

	config := sarama.NewConfig()
	// Sync producer: flush must observe real broker acks, because the
	// engine re-raises append failures instead of dropping entries.
	config.Producer.Return.Successes = true
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 3
	config.Producer.Retry.Backoff = 250 * time.Millisecond

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("sink: failed to start kafka producer: %w", err)
	}

	return &Kafka{
		producer: producer,
		topic:    topic,
	}, nil
}

func (k *Kafka) Append(_ context.Context, entries []engine.Entry) error {
	msgs := make([]*sarama.ProducerMessage, 0, len(entries))
	for _, entry := range entries {
		payload, err := json.Marshal(entry)
		if err != nil {
			return &WriteError{Destination: k.topic, Entries: len(entries), Cause: fmt.Errorf("marshal entry %s: %w", entry.ID, err)}
		}
		msgs = append(msgs, &sarama.ProducerMessage{
			Topic: k.topic,
			Key:   sarama.StringEncoder(strconv.FormatInt(entry.Subject.TrackingID, 10)),
			Value: sarama.ByteEncoder(payload),
		})
	}

	if err := k.producer.SendMessages(msgs); err != nil {
		return &WriteError{Destination: k.topic, Entries: len(entries), Cause: err}
	}
	return nil
}

func (k *Kafka) Close() error {
	return k.producer.Close()
}
