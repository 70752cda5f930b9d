package ws

import (
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Client couples a websocket connection with the authenticated user it
// belongs to, so notifications can target a single user.
type Client struct {
	Conn   *websocket.Conn
	UserID uuid.UUID
}

// UserMessage is a payload addressed to one user's connections
type UserMessage struct {
	UserID  uuid.UUID
	Payload []byte
}

type Hub struct {
	Clients    map[*websocket.Conn]uuid.UUID
	Register   chan *Client
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	Direct     chan UserMessage
	mutex      sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]uuid.UUID),
		Register:   make(chan *Client),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte),
		Direct:     make(chan UserMessage),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.mutex.Lock()
			h.Clients[client.Conn] = client.UserID
			h.mutex.Unlock()
			log.Println("New WS client connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()

		case msg := <-h.Direct:
			h.mutex.Lock()
			for conn, userID := range h.Clients {
				if userID != msg.UserID {
					continue
				}
				if err := conn.WriteMessage(websocket.TextMessage, msg.Payload); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}
