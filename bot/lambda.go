package bot

// LambdaEvent is the payload of the compute Lambda. When ReplyChannel is
// set, the response is also published there over NATS.
type LambdaEvent struct {
	Request
	ReplyChannel string `json:"reply_channel,omitempty"`
}
