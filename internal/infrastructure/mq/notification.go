package mq

import (
	"context"
	"fmt"
)

// Notifier 站内通知写入接口，由私信服务实现
type Notifier interface {
	CreateNotification(ctx context.Context, receiverId, content, petId string) error
}

// NewNotificationHandler 把申请事件转成站内通知
//   - created：通知发布者有新申请
//   - approved / rejected：通知申请人审批结果
func NewNotificationHandler(n Notifier) Handler {
	return func(ctx context.Context, ev Event) error {
		receiver, content := notificationFor(ev)
		if receiver == "" {
			return nil
		}
		return n.CreateNotification(ctx, receiver, content, ev.PetId)
	}
}

func notificationFor(ev Event) (receiver, content string) {
	switch ev.Type {
	case EventApplicationCreated:
		return ev.PublisherId, fmt.Sprintf("有人申请领养「%s」，请及时处理", ev.PetName)
	case EventApplicationApproved:
		return ev.ApplicantId, fmt.Sprintf("恭喜！您对「%s」的领养申请已通过", ev.PetName)
	case EventApplicationRejected:
		return ev.ApplicantId, fmt.Sprintf("很遗憾，您对「%s」的领养申请未通过", ev.PetName)
	default:
		return "", ""
	}
}
