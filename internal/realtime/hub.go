package realtime

import (
	"sync"

	"go.uber.org/zap"
)

// Conn es lo mínimo que el hub necesita de una conexión. *websocket.Conn
// lo satisface; los tests usan un fake.
type Conn interface {
	WriteJSON(v any) error
}

// Event es el sobre que viaja por el socket.
type Event struct {
	Event   string `json:"event"`
	Payload any    `json:"payload"`
}

// member envuelve una conexión con su mutex de escritura. gorilla/websocket
// admite un solo escritor concurrente por conexión, así que toda escritura
// (push del hub o respuesta del handler) pasa por send.
type member struct {
	mu sync.Mutex
	c  Conn
}

func (m *member) send(ev Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c.WriteJSON(ev)
}

// Hub mantiene las conexiones vivas por usuario. Un usuario puede tener
// varias pestañas abiertas; cada una recibe los eventos.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[Conn]*member
	log   *zap.Logger
}

func NewHub(log *zap.Logger) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	return &Hub{
		conns: make(map[string]map[Conn]*member),
		log:   log,
	}
}

// Join suscribe la conexión y devuelve el member por el que el handler
// debe canalizar sus propias escrituras sobre ese socket.
func (h *Hub) Join(userID string, c Conn) *member {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[userID]
	if !ok {
		set = make(map[Conn]*member)
		h.conns[userID] = set
	}
	m := &member{c: c}
	set[c] = m
	return m
}

func (h *Hub) Leave(userID string, c Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set, ok := h.conns[userID]
	if !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.conns, userID)
	}
}

// Publish envía el evento a todas las conexiones del usuario. Si no hay
// ninguna, no pasa nada: el destinatario lee la notificación persistida
// cuando vuelva. Se toma un snapshot bajo RLock y se escribe fuera del
// lock del hub; cada member serializa sus propias escrituras.
func (h *Hub) Publish(userID, event string, payload any) {
	h.mu.RLock()
	members := make([]*member, 0, len(h.conns[userID]))
	for _, m := range h.conns[userID] {
		members = append(members, m)
	}
	h.mu.RUnlock()

	for _, m := range members {
		if err := m.send(Event{Event: event, Payload: payload}); err != nil {
			h.log.Warn("fallo el push por websocket",
				zap.String("userID", userID),
				zap.String("event", event),
				zap.Error(err))
		}
	}
}

// Connected devuelve cuántas conexiones tiene el usuario.
func (h *Hub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[userID])
}
