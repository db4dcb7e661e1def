package interfaces

import (
	"context"
	"time"
)

// Message представляет сообщение независимо от транспорта.
type Message struct {
	ID          string            `json:"id"`
	Topic       string            `json:"topic"`
	Key         string            `json:"key"`
	Value       []byte            `json:"value"`
	Headers     map[string]string `json:"headers"`
	PublishedAt time.Time         `json:"published_at"`
}

// MessageHandler обрабатывает одно сообщение; ошибка логируется и учитывается в метриках.
type MessageHandler func(ctx context.Context, msg *Message) error

// ConsumerConfig задает параметры подписки.
type ConsumerConfig struct {
	GroupID            string
	AutoCommit         bool
	AutoCommitInterval time.Duration
	PollTimeout        time.Duration
	AutoOffsetReset    string
}

type MessagingPort interface {
	Publish(ctx context.Context, topic string, message []byte) error

	PublishWithKey(ctx context.Context, topic string, key string, message []byte) error

	// Subscribe подписывается на топик; возвращенная функция останавливает потребителя.
	Subscribe(ctx context.Context, topic string, handler MessageHandler) (func() error, error)

	Close() error
}
