package mq

import (
	"fmt"

	"pet_adoption_server/internal/config"
	"pet_adoption_server/pkg/constants"
)

// New 按 kafkaConfig.messageMode 创建事件总线
func New(conf *config.KafkaConfig, handler Handler) (Publisher, error) {
	switch conf.MessageMode {
	case "", "channel":
		return NewChannelBroker(constants.CHANNEL_SIZE, handler), nil
	case "kafka":
		return NewKafkaBroker(conf, handler), nil
	default:
		return nil, fmt.Errorf("未知的消息模式: %s", conf.MessageMode)
	}
}
