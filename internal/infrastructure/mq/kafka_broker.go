package mq

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"pet_adoption_server/internal/config"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// KafkaBroker Kafka 事件发布与消费
// 以 pet_id 作为 key，同一宠物的事件落在同一分区保证顺序
type KafkaBroker struct {
	writer  messageWriter
	reader  messageReader
	handler Handler

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewKafkaBroker 根据配置创建 Writer / Reader 并启动消费协程
func NewKafkaBroker(conf *config.KafkaConfig, handler Handler) *KafkaBroker {
	timeout := conf.Timeout * time.Second
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(conf.HostPort),
		Topic:                  conf.EventTopic,
		Balancer:               &kafka.Hash{},
		WriteTimeout:           timeout,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        []string{conf.HostPort},
		Topic:          conf.EventTopic,
		GroupID:        conf.GroupID,
		CommitInterval: timeout,
		StartOffset:    kafka.LastOffset,
	})
	zap.L().Info("kafka broker started",
		zap.String("addr", conf.HostPort),
		zap.String("topic", conf.EventTopic),
		zap.String("group", conf.GroupID))
	return newKafkaBroker(writer, reader, handler)
}

func newKafkaBroker(w messageWriter, r messageReader, handler Handler) *KafkaBroker {
	ctx, cancel := context.WithCancel(context.Background())
	b := &KafkaBroker{writer: w, reader: r, handler: handler, cancel: cancel}
	b.wg.Add(1)
	go b.consume(ctx)
	return b
}

// consume 消费循环，ctx 取消后退出
func (b *KafkaBroker) consume(ctx context.Context) {
	defer b.wg.Done()
	for {
		msg, err := b.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				return
			}
			zap.L().Error("kafka read message failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		zap.L().Debug("kafka message",
			zap.String("topic", msg.Topic),
			zap.Int("partition", msg.Partition),
			zap.Int64("offset", msg.Offset),
			zap.ByteString("key", msg.Key))

		ev, err := decodeEvent(msg.Value)
		if err != nil {
			zap.L().Error("kafka message decode failed", zap.Error(err), zap.ByteString("value", msg.Value))
			continue
		}
		dispatch(ctx, b.handler, ev)
	}
}

// Publish 序列化事件写入 Kafka
func (b *KafkaBroker) Publish(ctx context.Context, ev Event) error {
	value, err := encodeEvent(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	return b.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(ev.PetId),
		Value: value,
	})
}

// Close 停止消费并关闭连接
func (b *KafkaBroker) Close() error {
	b.cancel()
	b.wg.Wait()
	return errors.Join(b.writer.Close(), b.reader.Close())
}

var _ Publisher = (*KafkaBroker)(nil)
