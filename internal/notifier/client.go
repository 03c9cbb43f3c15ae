package notifier

// Client is used as an abstract notifier client, which could use SSE or WS implementations
type Client interface {
	GetSendChannel() chan []byte
	Read()
	Write()
}

// GenericClient is a standard notification client
type GenericClient struct {
	ID   string
	Send chan []byte
}

// GetSendChannel returns Send channel
func (c *GenericClient) GetSendChannel() chan []byte {
	return c.Send
}
