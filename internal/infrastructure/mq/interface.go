// Package mq 领养申请领域事件的发布与消费
// channel 模式进程内投递，kafka 模式通过 segmentio/kafka-go 跨实例投递
package mq

import (
	"context"
	"encoding/json"
	"time"
)

// 事件类型
const (
	EventApplicationCreated  = "application.created"
	EventApplicationApproved = "application.approved"
	EventApplicationRejected = "application.rejected"
)

// Event 领养申请事件，Kafka 消息体即其 JSON
type Event struct {
	Type          string    `json:"type"`
	ApplicationId string    `json:"application_id"`
	PetId         string    `json:"pet_id"`
	PetName       string    `json:"pet_name"`
	ApplicantId   string    `json:"applicant_id"`
	PublisherId   string    `json:"publisher_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Handler 事件处理函数，由消费端调用
type Handler func(ctx context.Context, ev Event) error

// Publisher 事件发布接口
// Service 层只依赖它，不关心底层是 channel 还是 Kafka
type Publisher interface {
	// Publish 发布事件，失败不影响已提交的业务数据
	Publish(ctx context.Context, ev Event) error
	// Close 停止消费并释放资源
	Close() error
}

func encodeEvent(ev Event) ([]byte, error) {
	return json.Marshal(ev)
}

func decodeEvent(data []byte) (Event, error) {
	var ev Event
	err := json.Unmarshal(data, &ev)
	return ev, err
}
