package request

// SendMessageRequest 发送私信
type SendMessageRequest struct {
	ReceiverId string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required,max=2000"`
	PetId      string `json:"petId"`
}

// MessageListQuery With 非空时返回与该用户的会话，否则返回收件箱
type MessageListQuery struct {
	PageQuery
	With string `form:"with"`
}
