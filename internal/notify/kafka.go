package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaSink publishes each notice as a JSON event keyed by appointment, so
// events for one appointment stay ordered within a partition.
type KafkaSink struct {
	writer MessageWriter
}

func NewKafkaSink(brokers []string, topic string) *KafkaSink {
	return NewKafkaSinkWithWriter(&kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	})
}

func NewKafkaSinkWithWriter(w MessageWriter) *KafkaSink {
	return &KafkaSink{writer: w}
}

type event struct {
	Notice
	OccurredAt time.Time `json:"occurred_at"`
}

func (s *KafkaSink) Deliver(ctx context.Context, n Notice) error {
	data, err := json.Marshal(event{Notice: n, OccurredAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal notice: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(strconv.FormatUint(uint64(n.AppointmentID), 10)),
		Value: data,
	}
	if err := s.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", n.Type, err)
	}
	return nil
}

func (s *KafkaSink) Close() error {
	return s.writer.Close()
}
