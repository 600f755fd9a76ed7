package message

type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=2000"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
