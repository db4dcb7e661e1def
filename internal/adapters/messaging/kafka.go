package messaging

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/google/uuid"
)

// KafkaOptions соответствует секции kafka конфигурации сервиса.
type KafkaOptions struct {
	Brokers           []string
	GroupID           string
	ClientID          string
	DeadLetterTopic   string
	AutoOffsetReset   string
	SessionTimeout    time.Duration
	HeartbeatTimeout  time.Duration
	PollTimeout       time.Duration
	MaxRetries        int
	LingerMs          int
	EnableIdempotence bool
	CompressionType   string
}

type subscription struct {
	consumer *kafka.Consumer
	done     chan struct{}
	once     sync.Once
}

// stop ждет завершения цикла poll и только потом закрывает потребителя.
func (s *subscription) stop() error {
	var err error
	s.once.Do(func() {
		<-s.done
		err = s.consumer.Close()
	})
	return err
}

// KafkaMessaging реализует MessagingPort на confluent-kafka-go.
type KafkaMessaging struct {
	producer       *kafka.Producer
	consumers      map[string]*subscription
	consumersMutex sync.RWMutex
	opts           KafkaOptions
	logger         interfaces.LoggerPort
}

func NewKafkaMessaging(opts KafkaOptions, logger interfaces.LoggerPort) (*KafkaMessaging, error) {
	if len(opts.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are not configured")
	}
	if opts.ClientID == "" {
		opts.ClientID = "storefront-service"
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = 100 * time.Millisecond
	}

	producer, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":            strings.Join(opts.Brokers, ","),
		"client.id":                    opts.ClientID + "-producer",
		"acks":                         "all",
		"retries":                      opts.MaxRetries,
		"retry.backoff.ms":             500,
		"compression.type":             opts.CompressionType,
		"linger.ms":                    opts.LingerMs,
		"enable.idempotence":           opts.EnableIdempotence,
		"message.max.bytes":            1000000,
		"queue.buffering.max.messages": 100000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}

	k := &KafkaMessaging{
		producer:  producer,
		consumers: make(map[string]*subscription),
		opts:      opts,
		logger:    logger,
	}
	go k.watchDeliveries()

	return k, nil
}

// watchDeliveries логирует неудачные асинхронные доставки.
func (k *KafkaMessaging) watchDeliveries() {
	for ev := range k.producer.Events() {
		m, ok := ev.(*kafka.Message)
		if !ok || m.TopicPartition.Error == nil {
			continue
		}
		published.WithLabelValues(topicOf(m), "failed").Inc()
		k.logger.Error("kafka delivery failed",
			interfaces.LogField{Key: "topic", Value: topicOf(m)},
			interfaces.LogField{Key: "error", Value: m.TopicPartition.Error.Error()})
	}
}

func topicOf(m *kafka.Message) string {
	if m.TopicPartition.Topic == nil {
		return ""
	}
	return *m.TopicPartition.Topic
}

func messageToKafkaMessage(topic string, message []byte, key string, headers map[string]string) *kafka.Message {
	kafkaHeaders := make([]kafka.Header, 0, len(headers)+2)
	for k, v := range headers {
		kafkaHeaders = append(kafkaHeaders, kafka.Header{Key: k, Value: []byte(v)})
	}

	kafkaHeaders = append(kafkaHeaders,
		kafka.Header{Key: "message_id", Value: []byte(uuid.New().String())},
		kafka.Header{Key: "timestamp", Value: []byte(strconv.FormatInt(time.Now().UnixNano(), 10))},
	)

	var keyBytes []byte
	if key != "" {
		keyBytes = []byte(key)
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          message,
		Key:            keyBytes,
		Headers:        kafkaHeaders,
	}
}

func kafkaMessageToMessage(msg *kafka.Message) *interfaces.Message {
	headers := make(map[string]string, len(msg.Headers))
	for _, header := range msg.Headers {
		headers[header.Key] = string(header.Value)
	}

	publishedAt := msg.Timestamp
	if ts, ok := headers["timestamp"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			publishedAt = time.Unix(0, nanos)
		}
	}

	return &interfaces.Message{
		ID:          headers["message_id"],
		Topic:       topicOf(msg),
		Key:         string(msg.Key),
		Value:       msg.Value,
		Headers:     headers,
		PublishedAt: publishedAt,
	}
}

func (k *KafkaMessaging) Publish(ctx context.Context, topic string, message []byte) error {
	return k.PublishWithKey(ctx, topic, "", message)
}

func (k *KafkaMessaging) PublishWithKey(ctx context.Context, topic string, key string, message []byte) error {
	headers := map[string]string{}
	if requestID, ok := ctx.Value(interfaces.RequestIDKey).(string); ok && requestID != "" {
		headers[string(interfaces.RequestIDKey)] = requestID
	}
	if err := k.producer.Produce(messageToKafkaMessage(topic, message, key, headers), nil); err != nil {
		published.WithLabelValues(topic, "failed").Inc()
		return fmt.Errorf("failed to produce message to %s: %w", topic, err)
	}
	published.WithLabelValues(topic, "queued").Inc()
	return nil
}

// Subscribe запускает цикл poll для топика в отдельной горутине. Сообщения,
// которые обработчик не смог обработать, уходят в dead letter топик, если он задан.
func (k *KafkaMessaging) Subscribe(ctx context.Context, topic string, handler interfaces.MessageHandler) (func() error, error) {
	cfg := interfaces.ConsumerConfig{
		GroupID:            k.opts.GroupID,
		AutoCommit:         false,
		AutoCommitInterval: 5 * time.Second,
		PollTimeout:        k.opts.PollTimeout,
		AutoOffsetReset:    k.opts.AutoOffsetReset,
	}
	if cfg.AutoOffsetReset == "" {
		cfg.AutoOffsetReset = "latest"
	}

	consumer, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":        strings.Join(k.opts.Brokers, ","),
		"group.id":                 cfg.GroupID,
		"client.id":                k.opts.ClientID + "-consumer",
		"auto.offset.reset":        cfg.AutoOffsetReset,
		"enable.auto.commit":       cfg.AutoCommit,
		"session.timeout.ms":       durationMs(k.opts.SessionTimeout, 30000),
		"heartbeat.interval.ms":    durationMs(k.opts.HeartbeatTimeout, 3000),
		"max.poll.interval.ms":     300000,
		"fetch.wait.max.ms":        500,
		"reconnect.backoff.ms":     50,
		"reconnect.backoff.max.ms": 10000,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka consumer: %w", err)
	}

	if err := consumer.Subscribe(topic, nil); err != nil {
		consumer.Close()
		return nil, fmt.Errorf("failed to subscribe to topic %s: %w", topic, err)
	}

	id := uuid.New().String()
	sub := &subscription{consumer: consumer, done: make(chan struct{})}
	k.consumersMutex.Lock()
	k.consumers[id] = sub
	k.consumersMutex.Unlock()

	go func() {
		defer close(sub.done)
		k.consumeMessages(ctx, id, consumer, handler, cfg)
	}()

	unsubscribe := func() error {
		k.consumersMutex.Lock()
		delete(k.consumers, id)
		k.consumersMutex.Unlock()
		return sub.stop()
	}

	return unsubscribe, nil
}

func durationMs(d time.Duration, fallback int) int {
	if d <= 0 {
		return fallback
	}
	return int(d.Milliseconds())
}

func (k *KafkaMessaging) active(id string) bool {
	k.consumersMutex.RLock()
	defer k.consumersMutex.RUnlock()
	_, ok := k.consumers[id]
	return ok
}

func (k *KafkaMessaging) consumeMessages(ctx context.Context, id string, consumer *kafka.Consumer, handler interfaces.MessageHandler, cfg interfaces.ConsumerConfig) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if !k.active(id) {
			return
		}

		ev := consumer.Poll(int(cfg.PollTimeout.Milliseconds()))
		if ev == nil {
			continue
		}

		switch e := ev.(type) {
		case *kafka.Message:
			msg := kafkaMessageToMessage(e)
			msgCtx := ctx
			if requestID := msg.Headers[string(interfaces.RequestIDKey)]; requestID != "" {
				msgCtx = context.WithValue(ctx, interfaces.RequestIDKey, requestID)
			}

			start := time.Now()
			if err := handler(msgCtx, msg); err != nil {
				consumed.WithLabelValues(msg.Topic, "failed").Inc()
				k.logger.ErrorWithContext(msgCtx, "message handler failed",
					interfaces.LogField{Key: "topic", Value: msg.Topic},
					interfaces.LogField{Key: "message_id", Value: msg.ID},
					interfaces.LogField{Key: "error", Value: err.Error()})
				k.deadLetter(msgCtx, msg, err)
			} else {
				consumed.WithLabelValues(msg.Topic, "ok").Inc()
			}
			handleDuration.WithLabelValues(msg.Topic).Observe(time.Since(start).Seconds())

			if !cfg.AutoCommit {
				if _, err := consumer.CommitMessage(e); err != nil {
					k.logger.Warn("failed to commit kafka offset",
						interfaces.LogField{Key: "topic", Value: msg.Topic},
						interfaces.LogField{Key: "error", Value: err.Error()})
				}
			}

		case kafka.Error:
			k.logger.Error("kafka consumer error",
				interfaces.LogField{Key: "code", Value: e.Code().String()},
				interfaces.LogField{Key: "error", Value: e.Error()})
			if e.Code() == kafka.ErrAllBrokersDown {
				return
			}

		case kafka.PartitionEOF:
			k.logger.Debug("reached end of partition",
				interfaces.LogField{Key: "partition", Value: e.String()})
		}
	}
}

func (k *KafkaMessaging) deadLetter(ctx context.Context, msg *interfaces.Message, cause error) {
	if k.opts.DeadLetterTopic == "" || msg.Topic == k.opts.DeadLetterTopic {
		return
	}
	headers := map[string]string{
		"original_topic": msg.Topic,
		"error":          cause.Error(),
	}
	if err := k.producer.Produce(messageToKafkaMessage(k.opts.DeadLetterTopic, msg.Value, msg.Key, headers), nil); err != nil {
		k.logger.ErrorWithContext(ctx, "failed to forward message to dead letter topic",
			interfaces.LogField{Key: "topic", Value: k.opts.DeadLetterTopic},
			interfaces.LogField{Key: "error", Value: err.Error()})
	}
}

// CreateTopic создает топик, если его еще нет.
func (k *KafkaMessaging) CreateTopic(ctx context.Context, topic string, partitions int, replicationFactor int) error {
	adminClient, err := kafka.NewAdminClientFromProducer(k.producer)
	if err != nil {
		return fmt.Errorf("failed to create kafka admin client: %w", err)
	}
	defer adminClient.Close()

	result, err := adminClient.CreateTopics(ctx, []kafka.TopicSpecification{{
		Topic:             topic,
		NumPartitions:     partitions,
		ReplicationFactor: replicationFactor,
	}}, kafka.SetAdminOperationTimeout(30*time.Second))
	if err != nil {
		return fmt.Errorf("failed to create topic %s: %w", topic, err)
	}

	for _, r := range result {
		if code := r.Error.Code(); code != kafka.ErrNoError && code != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("failed to create topic %s: %s", r.Topic, r.Error.String())
		}
	}

	return nil
}

func (k *KafkaMessaging) Close() error {
	k.consumersMutex.Lock()
	subs := make([]*subscription, 0, len(k.consumers))
	for id, sub := range k.consumers {
		delete(k.consumers, id)
		subs = append(subs, sub)
	}
	k.consumersMutex.Unlock()

	for _, sub := range subs {
		_ = sub.stop()
	}

	k.producer.Flush(15 * 1000)
	k.producer.Close()

	return nil
}

var _ interfaces.MessagingPort = (*KafkaMessaging)(nil)
