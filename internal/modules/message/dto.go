package message

type SendMessageRequest struct {
	ReceiverID int64  `json:"receiver_id" binding:"required"`
	Body       string `json:"body" binding:"required,max=2000"`
}

// WSEvent is the payload pushed to a connected receiver when a new
// message arrives.
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
