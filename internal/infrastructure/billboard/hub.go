// Package billboard difunde por websocket el ranking de productos más vendidos
// a las pantallas de la tienda.
package billboard

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Estore-api/internal/application/ports"
	"github.com/jhoicas/Estore-api/internal/domain/entity"
	"github.com/jhoicas/Estore-api/pkg/logger"
)

var _ ports.BillboardPublisher = (*Hub)(nil)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 4
)

// Item un producto tal como lo muestra la pantalla.
type Item struct {
	ImageURL     string          `json:"imageUrl"`
	Name         string          `json:"name"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub mantiene los clientes conectados y el último ranking publicado.
// Un cliente nuevo recibe ese último ranking apenas se conecta.
type Hub struct {
	mu       sync.Mutex
	clients  map[*client]struct{}
	snapshot []byte
	closed   bool
	upgrader websocket.Upgrader
	log      *logger.Logger
}

// NewHub construye un hub vacío.
func NewHub(log *logger.Logger) *Hub {
	if log == nil {
		log = logger.Nop()
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		log: log.Named("billboard"),
	}
}

// Handler rutas del servidor del billboard: /ws para las pantallas.
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	return mux
}

// ServeHTTP acepta la conexión websocket y la mantiene hasta que el cliente se va.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("upgrade websocket")
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		_ = conn.Close()
		return
	}
	h.clients[c] = struct{}{}
	if h.snapshot != nil {
		c.send <- h.snapshot
	}
	n := len(h.clients)
	h.mu.Unlock()
	h.log.Debug().Int("clients", n).Msg("pantalla conectada")

	go h.writeLoop(c)
	h.readLoop(c)
}

// readLoop descarta lo que envía el cliente; solo sirve para detectar la desconexión.
func (h *Hub) readLoop(c *client) {
	defer h.remove(c)
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writeLoop(c *client) {
	defer c.conn.Close()
	for msg := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			h.remove(c)
			return
		}
	}
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
}

// remove da de baja al cliente una sola vez; cerrar send termina writeLoop.
func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
}

// Publish guarda el ranking y lo envía a todas las pantallas.
// Un cliente con el buffer lleno se desconecta.
func (h *Hub) Publish(products []*entity.Product) error {
	items := make([]Item, 0, len(products))
	for _, p := range products {
		items = append(items, Item{ImageURL: p.ImageURL, Name: p.Name, SellingPrice: p.SellingPrice})
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("billboard: encode: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.snapshot = data
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			delete(h.clients, c)
			close(c.send)
		}
	}
	h.log.Info().Int("products", len(items)).Int("clients", len(h.clients)).Msg("ranking publicado")
	return nil
}

// Clients cantidad de pantallas conectadas.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close desconecta a todos los clientes y rechaza conexiones nuevas.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for c := range h.clients {
		delete(h.clients, c)
		close(c.send)
	}
}
