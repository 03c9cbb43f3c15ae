package notifier

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebsocketClient structure represents a specific websocket connection, used by the manager
type WebsocketClient struct {
	GenericClient
	Socket  *websocket.Conn
	Receive chan []byte
}

// NewWebsocketClient creates a new client object containing the new connection
func NewWebsocketClient(conn *websocket.Conn) *WebsocketClient {
	return &WebsocketClient{
		GenericClient: GenericClient{
			ID:   uuid.New().String(),
			Send: make(chan []byte, 1),
		},
		Socket:  conn,
		Receive: make(chan []byte, 1),
	}
}

var upgrader = &websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// BuildWebsocketClient renders a new client after getting a new connection established
func BuildWebsocketClient(w http.ResponseWriter, r *http.Request) (*WebsocketClient, error) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return nil, err
	}
	return NewWebsocketClient(conn), nil
}

// Write a message on a client socket
func (c *WebsocketClient) Write() {
	defer func() {
		destroyWebsocketClient(c)
	}()

	for message := range c.Send {
		c.Socket.WriteMessage(websocket.TextMessage, message)
	}
	c.Socket.WriteMessage(websocket.CloseMessage, []byte{})
}

// Read pumps inbound messages to the Receive channel and detects a closed connection
func (c *WebsocketClient) Read() {
	defer func() {
		destroyWebsocketClient(c)
	}()

	for {
		_, message, err := c.Socket.ReadMessage()
		if err != nil {
			if e, ok := err.(*websocket.CloseError); ok {
				if e.Code != websocket.CloseNormalClosure && e.Code != websocket.CloseGoingAway {
					zap.L().Error("Read socket", zap.Error(err))
				}
			} else {
				zap.L().Error("Read socket", zap.Error(err))
			}
			break
		}
		zap.L().Debug("message received", zap.ByteString("message", message), zap.String("client", c.ID))
		c.Receive <- message
	}
}

func destroyWebsocketClient(c *WebsocketClient) {
	C().Unregister(c)
	c.Socket.Close()
}
