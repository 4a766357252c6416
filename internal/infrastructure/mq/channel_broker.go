package mq

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"
)

// ErrBrokerClosed Close 之后继续发布
var ErrBrokerClosed = errors.New("mq: broker closed")

// ChannelBroker 进程内事件总线
// 单个消费协程按发布顺序处理事件
type ChannelBroker struct {
	events  chan Event
	handler Handler

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewChannelBroker 创建并启动消费协程
func NewChannelBroker(size int, handler Handler) *ChannelBroker {
	b := &ChannelBroker{
		events:  make(chan Event, size),
		handler: handler,
	}
	b.wg.Add(1)
	go b.consume()
	zap.L().Info("channel broker started", zap.Int("buffer", size))
	return b
}

func (b *ChannelBroker) consume() {
	defer b.wg.Done()
	for ev := range b.events {
		dispatch(context.Background(), b.handler, ev)
	}
}

// Publish 缓冲区满时阻塞，直到 ctx 结束
func (b *ChannelBroker) Publish(ctx context.Context, ev Event) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return ErrBrokerClosed
	}
	select {
	case b.events <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close 关闭通道并等待剩余事件处理完
func (b *ChannelBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	close(b.events)
	b.mu.Unlock()
	b.wg.Wait()
	return nil
}

// dispatch 调用 handler，panic 与错误只记日志
func dispatch(ctx context.Context, handler Handler, ev Event) {
	defer func() {
		if rec := recover(); rec != nil {
			zap.L().Error("event handler panic", zap.String("type", ev.Type), zap.Any("recover", rec))
		}
	}()
	if handler == nil {
		return
	}
	if err := handler(ctx, ev); err != nil {
		zap.L().Error("handle event failed",
			zap.String("type", ev.Type),
			zap.String("application_id", ev.ApplicationId),
			zap.Error(err))
	}
}

var _ Publisher = (*ChannelBroker)(nil)
