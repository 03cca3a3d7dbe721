package realtime

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"pet-boarding/internal/ports/auth"
)

const loginDeadline = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// El handshake de login autentica; el Origin no aporta acá.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type loginFrame struct {
	Event   string `json:"event"`
	Payload struct {
		Token string `json:"token"`
	} `json:"payload"`
}

// Handler atiende /ws. El cliente se conecta sin header de auth
// (el browser no permite headers en WebSocket) y manda como primer
// frame {"event":"login","payload":{"token":"..."}}. Con token válido
// la conexión queda suscrita a los eventos de ese usuario.
func Handler(hub *Hub, verifier auth.AuthVerifier, log *zap.Logger) http.HandlerFunc {
	if log == nil {
		log = zap.NewNop()
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Debug("fallo el upgrade de websocket", zap.Error(err))
			return
		}
		defer ws.Close()

		_ = ws.SetReadDeadline(time.Now().Add(loginDeadline))

		var frame loginFrame
		if err := ws.ReadJSON(&frame); err != nil || frame.Event != "login" {
			_ = ws.WriteJSON(Event{Event: "error", Payload: "login required"})
			return
		}

		// Modo dev (sin verifier): el token se toma como userID directo,
		// igual que X-Debug-User-ID en el middleware HTTP.
		var claims auth.Claims
		if verifier == nil {
			claims = auth.Claims{UserID: frame.Payload.Token}
		} else {
			var err error
			claims, err = verifier.Verify(r.Context(), frame.Payload.Token)
			if err != nil {
				_ = ws.WriteJSON(Event{Event: "error", Payload: "invalid token"})
				return
			}
		}

		_ = ws.SetReadDeadline(time.Time{})

		m := hub.Join(claims.UserID, ws)
		defer hub.Leave(claims.UserID, ws)

		// Después de Join la conexión puede recibir un Publish en
		// cualquier momento; el ok va por el mismo member.
		_ = m.send(Event{Event: "login", Payload: "ok"})
		log.Debug("websocket conectado", zap.String("userID", claims.UserID))

		// Drena frames entrantes hasta que el cliente cierre; este
		// canal es solo de bajada, lo que llegue se ignora.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	}
}
