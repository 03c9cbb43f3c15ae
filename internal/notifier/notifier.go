package notifier

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/notifier/notification"
)

var (
	_globalNotifierMu sync.RWMutex
	_globalNotifier   *Notifier
)

// C is used to access the global notifier singleton
func C() *Notifier {
	_globalNotifierMu.RLock()
	defer _globalNotifierMu.RUnlock()

	notifier := _globalNotifier
	return notifier
}

// ReplaceGlobals affect a new notifier to the global notifier singleton
func ReplaceGlobals(notifier *Notifier) func() {
	_globalNotifierMu.Lock()
	defer _globalNotifierMu.Unlock()

	prev := _globalNotifier
	_globalNotifier = notifier
	return func() { ReplaceGlobals(prev) }
}

// Notifier pushes decision notifications to every connected operator console
type Notifier struct {
	clientManager *ClientManager
	cacheMu       sync.Mutex
	cache         map[string]time.Time
}

// NewNotifier returns a pointer to a new instance of Notifier
func NewNotifier() *Notifier {
	cm := NewClientManager()
	return &Notifier{
		clientManager: cm,
		cache:         make(map[string]time.Time, 0),
	}
}

// Register add a new client to the client manager pool
func (notifier *Notifier) Register(client Client) error {
	zap.L().Info("Client registered")
	return notifier.clientManager.Register(client)
}

// Unregister disconnect an existing client from the client manager pool
func (notifier *Notifier) Unregister(client Client) error {
	zap.L().Info("Client unregistered")
	return notifier.clientManager.Unregister(client)
}

func (notifier *Notifier) verifyCache(key string, timeout time.Duration) bool {
	notifier.cacheMu.Lock()
	defer notifier.cacheMu.Unlock()

	if val, ok := notifier.cache[key]; ok && time.Now().UTC().Before(val) {
		return false
	}
	notifier.cache[key] = time.Now().UTC().Add(timeout)
	return true
}

// Broadcast send a notification to every connected client
func (notifier *Notifier) Broadcast(notif notification.Notification) {
	for _, client := range notifier.clientManager.GetClients() {
		notifier.sendToClient(notif, client)
	}
}

// BroadcastWithCache send a notification to every connected client, unless the
// same cache key was already broadcast within the timeout window
func (notifier *Notifier) BroadcastWithCache(cacheKey string, timeout time.Duration, notif notification.Notification) {
	if cacheKey != "" && !notifier.verifyCache(cacheKey, timeout) {
		zap.L().Debug("Notification send skipped", zap.String("key", cacheKey))
		return
	}
	notifier.Broadcast(notif)
}

// sendToClient convert and send a notification to a specific client
// Every multiplexing function must call this function in the end to send message
func (notifier *Notifier) sendToClient(notif notification.Notification, client Client) {
	message, err := notif.ToBytes()
	if err != nil {
		zap.L().Error("notif.ToBytes()", zap.Error(err))
		return
	}

	notifier.Send(message, client)
}

// Send send a byte slices to a specific websocket client
// The send never blocks: a client whose write pump stopped draining gets the
// message dropped, since Broadcast runs on the event processing path
func (notifier *Notifier) Send(message []byte, client Client) {
	if client == nil {
		return
	}
	select {
	case client.GetSendChannel() <- message:
	default:
		zap.L().Warn("Dropping notification for client with full send buffer")
	}
}
