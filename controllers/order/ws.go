package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/Dantikal/electronik-shop/models"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsConn is the slice of *websocket.Conn the broadcast path needs.
type wsConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

var (
	wsMu      sync.Mutex
	wsClients = make(map[wsConn]bool)
)

// GET /api/orders/ws
// Streams order updates (status and paid flips) to connected clients.
func OrderUpdatesHandler(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	wsMu.Lock()
	wsClients[conn] = true
	wsMu.Unlock()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			wsMu.Lock()
			delete(wsClients, conn)
			wsMu.Unlock()
			break
		}
	}
}

func broadcastOrderUpdate(order models.Order) {
	data, err := json.Marshal(gin.H{
		"order_id": order.ID,
		"paid":     order.Paid,
		"status":   order.Status,
	})
	if err != nil {
		return
	}
	wsMu.Lock()
	defer wsMu.Unlock()
	for client := range wsClients {
		// A failed write means a dead connection; drop it now instead of
		// waiting for its read loop to notice.
		if err := client.WriteMessage(websocket.TextMessage, data); err != nil {
			client.Close()
			delete(wsClients, client)
		}
	}
}
