// Package kafka は社員イベントを Kafka トピックへ発行します。
package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/ogurasousui/grpc-employee-records/internal/adapters/events"
	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	"github.com/ogurasousui/grpc-employee-records/internal/platform/config"
	kafkago "github.com/segmentio/kafka-go"
)

// EventTypeHeader はイベント種別を格納するメッセージヘッダー名です。
const EventTypeHeader = "event_type"

// MessageWriter は *kafkago.Writer のうち発行に必要な部分です。
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher は employee.EventPublisher の Kafka 実装です。
// 同一社員のイベントが同じパーティションに入るよう社員 ID をキーにします。
type Publisher struct {
	writer MessageWriter
}

// batchTimeout は同期書き込み 1 件あたりの待ち時間の上限です。
const batchTimeout = 10 * time.Millisecond

// NewPublisher は設定からライターを構築して Publisher を生成します。
func NewPublisher(cfg config.KafkaConfig) *Publisher {
	return NewPublisherWithWriter(&kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Topic:                  cfg.Topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		BatchSize:              1,
		BatchTimeout:           batchTimeout,
		AllowAutoTopicCreation: true,
	})
}

// NewPublisherWithWriter は任意のライターで Publisher を生成します。
func NewPublisherWithWriter(writer MessageWriter) *Publisher {
	return &Publisher{writer: writer}
}

// Publish はイベントを 1 メッセージとして書き込みます。
func (p *Publisher) Publish(ctx context.Context, event employee.Event) error {
	payload, err := events.Encode(event)
	if err != nil {
		return err
	}

	msg := kafkago.Message{
		Key:   []byte(event.EmployeeID),
		Value: payload,
		Headers: []kafkago.Header{
			{Key: EventTypeHeader, Value: []byte(event.Type)},
		},
		Time: event.OccurredAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka: publish %s: %w", event.Type, err)
	}
	return nil
}

// Close はライターを閉じます。
func (p *Publisher) Close() error {
	return p.writer.Close()
}
