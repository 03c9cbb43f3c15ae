package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/fieldreach/intelligence-api/internal/notifier"
)

// NotificationsWSRegister godoc
// @Summary Register a new client to the notifications system using WS
// @Description Register a new client to the notifications system using WS
// @Tags Notifications
// @Produce json
// @Security Bearer
// @Success 200 "Status OK"
// @Failure 400 "Status Bad Request"
// @Router /engine/notifications [get]
func NotificationsWSRegister(w http.ResponseWriter, r *http.Request) {
	zap.L().Info("New connection on /notifications")

	client, err := notifier.BuildWebsocketClient(w, r)
	if err != nil {
		zap.L().Error("Build new WS Client", zap.Error(err))
		return
	}

	err = notifier.C().Register(client)
	if err != nil {
		zap.L().Error("Add new WS Client to manager", zap.Error(err))
		return
	}
	go client.Write()
	go client.Read()
}
