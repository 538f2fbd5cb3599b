package events

import (
	"net/http"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/AlibekovAA/dh-notes/internal/common/constants"
	commonhttp "github.com/AlibekovAA/dh-notes/internal/common/http"
	"github.com/AlibekovAA/dh-notes/internal/common/jwtverify"
	"github.com/AlibekovAA/dh-notes/internal/common/logger"
)

type Handler struct {
	hub      *Hub
	upgrader gorillaWS.Upgrader
	log      *logger.Logger
}

func NewHandler(hub *Hub, log *logger.Logger) *Handler {
	return &Handler{
		hub: hub,
		upgrader: gorillaWS.Upgrader{
			ReadBufferSize:  constants.WebSocketReadBufferSize,
			WriteBufferSize: constants.WebSocketWriteBufferSize,
			CheckOrigin:     sameOrigin,
		},
		log: log,
	}
}

// ServeHTTP upgrades an already authorized request into a feed subscription.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	claims, err := jwtverify.MustFromContext(ctx)
	if err != nil {
		commonhttp.HandleError(w, r, err, h.log)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithFields(ctx, logger.Fields{
			"username": claims.Subject,
			"action":   "ws_upgrade_failed",
		}).Warnf("websocket upgrade failed: %v", err)
		return
	}

	client := NewClient(ctx, h.hub, conn, claims.Subject, h.log)
	h.hub.Register(client)
	client.Start()
}

func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	host := r.Host
	if host == "" {
		host = r.URL.Host
	}
	return origin == "http://"+host || origin == "https://"+host
}
