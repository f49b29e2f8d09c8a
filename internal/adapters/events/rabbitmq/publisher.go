// Package rabbitmq は社員イベントを RabbitMQ のエクスチェンジへ発行します。
package rabbitmq

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ogurasousui/grpc-employee-records/internal/adapters/events"
	"github.com/ogurasousui/grpc-employee-records/internal/core/employee"
	"github.com/ogurasousui/grpc-employee-records/internal/platform/config"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Channel は *amqp.Channel のうち発行に必要な部分です。
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// Publisher は employee.EventPublisher の RabbitMQ 実装です。
type Publisher struct {
	channel    Channel
	exchange   string
	routingKey string
	timeout    time.Duration
	closers    []func() error
}

// Dial は接続とチャネルを開き、エクスチェンジを宣言した Publisher を返します。
// exchange が空の場合はデフォルトエクスチェンジへ routing_key 名のキューとして送ります。
func Dial(cfg config.RabbitMQConfig) (*Publisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("rabbitmq: dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: open channel: %w", err)
	}

	if cfg.Exchange != "" {
		err = ch.ExchangeDeclare(cfg.Exchange, amqp.ExchangeTopic, true, false, false, false, nil)
	} else {
		_, err = ch.QueueDeclare(cfg.RoutingKey, true, false, false, false, nil)
	}
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("rabbitmq: declare: %w", err)
	}

	p := NewPublisher(ch, cfg)
	p.closers = []func() error{ch.Close, conn.Close}
	return p, nil
}

// NewPublisher は既存のチャネルで Publisher を生成します。
func NewPublisher(ch Channel, cfg config.RabbitMQConfig) *Publisher {
	return &Publisher{
		channel:    ch,
		exchange:   cfg.Exchange,
		routingKey: cfg.RoutingKey,
		timeout:    cfg.PublishTimeout,
	}
}

// Publish はイベントを永続メッセージとして発行します。
// ルーティングキーは <routing_key>.<イベント種別> です。
func (p *Publisher) Publish(ctx context.Context, event employee.Event) error {
	body, err := events.Encode(event)
	if err != nil {
		return err
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	key := p.routingKey
	if p.exchange != "" {
		key = p.routingKey + "." + string(event.Type)
	}

	err = p.channel.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  events.ContentType,
		DeliveryMode: amqp.Persistent,
		MessageId:    event.EmployeeID + ":" + string(event.Type),
		Timestamp:    event.OccurredAt,
		Type:         string(event.Type),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("rabbitmq: publish %s: %w", event.Type, err)
	}
	return nil
}

// Close はチャネルと接続を閉じます。
func (p *Publisher) Close() error {
	var errs []error
	for _, closeFn := range p.closers {
		if err := closeFn(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
