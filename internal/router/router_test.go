package router_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"pet-boarding/internal/adapters/auth/jwtauth"
	"pet-boarding/internal/router"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	jwtSvc, err := jwtauth.New(jwtauth.Options{Secret: "test-secret", TTL: time.Hour})
	if err != nil {
		t.Fatalf("jwtauth: %v", err)
	}

	ts := httptest.NewServer(router.NewRouter(router.Options{
		AuthVerifier: jwtSvc,
		TokenIssuer:  jwtSvc,
	}))
	t.Cleanup(ts.Close)
	return ts
}

func TestHTTP_EndToEnd_BoardingFlow(t *testing.T) {
	ts := newTestServer(t)

	// 1) Registro de owner y caretaker
	ownerID, ownerToken := registerUser(t, ts.URL, "ana", "ana@example.com", true)
	_, caretakerToken := registerUser(t, ts.URL, "bruno", "bruno@example.com", false)

	// 2) Sin token no se entra; con rol equivocado tampoco
	{
		st, _ := doReq(t, ts.URL, "GET", "/owner/get-pets-by-owner", "", nil)
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 without token, got %d", st)
		}
		st, _ = doReq(t, ts.URL, "GET", "/owner/get-pets-by-owner", caretakerToken, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 for caretaker on owner route, got %d", st)
		}
	}

	// 3) Owner crea mascota
	var pet struct {
		ID   string `json:"id"`
		Size string `json:"size"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/owner/create-pet", ownerToken, map[string]any{
			"name":  "Rocky",
			"age":   3,
			"breed": "mixed",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create pet, got %d body=%s", st, string(body))
		}
		mustUnmarshal(t, body, &pet)
		if pet.Size != "M" {
			t.Fatalf("pet size = %q, want default M", pet.Size)
		}
	}

	// 4) Owner crea reserva
	var res struct {
		ID        string `json:"id"`
		Confirmed bool   `json:"confirmed"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/owner/create-reservation", ownerToken, map[string]any{
			"petID":     pet.ID,
			"startDate": "2026-04-01",
			"endDate":   "2026-04-08",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create reservation, got %d body=%s", st, string(body))
		}
		mustUnmarshal(t, body, &res)
	}

	// 5) Segunda reserva para la misma mascota => conflicto
	{
		st, _ := doReq(t, ts.URL, "POST", "/owner/create-reservation", ownerToken, map[string]any{
			"petID":     pet.ID,
			"startDate": "2026-05-01",
			"endDate":   "2026-05-08",
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 double booking, got %d", st)
		}
	}

	// 6) Confirmar sin actividades => conflicto
	{
		st, _ := doReq(t, ts.URL, "PUT", "/owner/confirm-reservation", ownerToken, map[string]any{
			"reservationID": res.ID,
		})
		if st != http.StatusConflict {
			t.Fatalf("expected 409 confirm without activities, got %d", st)
		}
	}

	// 7) Owner crea actividad y confirma
	var act struct {
		ID             string `json:"id"`
		TimesCompleted int    `json:"timesCompleted"`
	}
	{
		st, body := doReq(t, ts.URL, "POST", "/owner/create-activity", ownerToken, map[string]any{
			"reservationID": res.ID,
			"title":         "walk",
			"description":   "morning walk",
			"frequency":     "daily",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 create activity, got %d body=%s", st, string(body))
		}
		mustUnmarshal(t, body, &act)

		st, body = doReq(t, ts.URL, "PUT", "/owner/confirm-reservation", ownerToken, map[string]any{
			"reservationID": res.ID,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 confirm, got %d body=%s", st, string(body))
		}
		var confirmed struct {
			Confirmed bool `json:"confirmed"`
		}
		mustUnmarshal(t, body, &confirmed)
		if !confirmed.Confirmed {
			t.Fatal("reservation should be confirmed")
		}
	}

	// 8) Owner conecta el websocket y hace login con su token
	ws := dialWS(t, ts.URL, ownerToken)
	defer ws.Close()

	// 9) Caretaker marca la actividad como cumplida
	{
		st, body := doReq(t, ts.URL, "PUT", "/caretaker/accomplish-activity", caretakerToken, map[string]any{
			"activityID": act.ID,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 accomplish, got %d body=%s", st, string(body))
		}
		var updated struct {
			TimesCompleted int `json:"timesCompleted"`
		}
		mustUnmarshal(t, body, &updated)
		if updated.TimesCompleted != 1 {
			t.Fatalf("timesCompleted = %d, want 1", updated.TimesCompleted)
		}
	}

	// 10) El owner recibe el push en vivo
	{
		_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		var frame struct {
			Event   string `json:"event"`
			Payload struct {
				PetName        string `json:"petName"`
				CaretakerName  string `json:"caretakerName"`
				Activity       string `json:"activity"`
				TimesCompleted int    `json:"timesCompleted"`
			} `json:"payload"`
		}
		if err := ws.ReadJSON(&frame); err != nil {
			t.Fatalf("read ws frame: %v", err)
		}
		if frame.Event != "accomplishActivity" {
			t.Fatalf("ws event = %q, want accomplishActivity", frame.Event)
		}
		if frame.Payload.PetName != "Rocky" || frame.Payload.CaretakerName != "bruno" {
			t.Fatalf("ws payload = %+v", frame.Payload)
		}
		if frame.Payload.Activity != "walk" || frame.Payload.TimesCompleted != 1 {
			t.Fatalf("ws payload = %+v", frame.Payload)
		}
	}

	// 11) La notificación también quedó persistida
	var notifID string
	{
		st, body := doReq(t, ts.URL, "GET", "/notification/"+ownerID, ownerToken, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list notifications, got %d body=%s", st, string(body))
		}
		var list []struct {
			ID       string `json:"id"`
			PetName  string `json:"petName"`
			Activity string `json:"activity"`
		}
		mustUnmarshal(t, body, &list)
		if len(list) != 1 || list[0].PetName != "Rocky" || list[0].Activity != "walk" {
			t.Fatalf("notifications = %+v", list)
		}
		notifID = list[0].ID
	}

	// 12) Caretaker no puede leer notificaciones de owner
	{
		st, _ := doReq(t, ts.URL, "GET", "/notification/"+ownerID, caretakerToken, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 caretaker on notification route, got %d", st)
		}
	}

	// 13) Otro owner no puede borrar una notificación ajena; el dueño sí
	{
		_, intruderToken := registerUser(t, ts.URL, "carla", "carla@example.com", true)

		st, _ := doReq(t, ts.URL, "DELETE", "/notification/"+notifID, intruderToken, nil)
		if st != http.StatusForbidden {
			t.Fatalf("expected 403 foreign notification delete, got %d", st)
		}

		st, _ = doReq(t, ts.URL, "DELETE", "/notification/"+notifID, ownerToken, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 own notification delete, got %d", st)
		}
	}

	// 14) Cancelar libera la mascota y borra las actividades
	{
		st, body := doReq(t, ts.URL, "DELETE", "/owner/cancel-reservation", ownerToken, map[string]any{
			"reservationID": res.ID,
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 cancel, got %d body=%s", st, string(body))
		}

		st, body = doReq(t, ts.URL, "GET", "/owner/get-reservations", ownerToken, nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 list reservations, got %d", st)
		}
		var left []json.RawMessage
		mustUnmarshal(t, body, &left)
		if len(left) != 0 {
			t.Fatalf("reservations after cancel = %d, want 0", len(left))
		}

		st, _ = doReq(t, ts.URL, "POST", "/owner/create-reservation", ownerToken, map[string]any{
			"petID":     pet.ID,
			"startDate": "2026-06-01",
			"endDate":   "2026-06-08",
		})
		if st != http.StatusCreated {
			t.Fatalf("expected 201 re-reserve after cancel, got %d", st)
		}
	}
}

func TestHTTP_RegisterAndLoginErrors(t *testing.T) {
	ts := newTestServer(t)

	registerUser(t, ts.URL, "ana", "ana@example.com", true)

	// Email duplicado
	{
		st, body := doReq(t, ts.URL, "POST", "/auth/register", "", map[string]any{
			"username": "otra",
			"email":    "ana@example.com",
			"password": "different1",
			"isOwner":  true,
		})
		if st != http.StatusBadRequest {
			t.Fatalf("expected 400 duplicate email, got %d", st)
		}
		if !strings.Contains(string(body), "already registered") {
			t.Fatalf("body = %s", string(body))
		}
	}

	// Password incorrecta
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/owner-login", "", map[string]any{
			"email":    "ana@example.com",
			"password": "wrong-password",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 bad password, got %d", st)
		}
	}

	// Login de caretaker contra cuenta de owner
	{
		st, _ := doReq(t, ts.URL, "POST", "/auth/caretaker-login", "", map[string]any{
			"email":    "ana@example.com",
			"password": "secret123",
		})
		if st != http.StatusUnauthorized {
			t.Fatalf("expected 401 owner account on caretaker login, got %d", st)
		}
	}
}

func TestHTTP_WSRejectsBadToken(t *testing.T) {
	ts := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer ws.Close()

	if err := ws.WriteJSON(map[string]any{
		"event":   "login",
		"payload": map[string]string{"token": "garbage"},
	}); err != nil {
		t.Fatalf("write login: %v", err)
	}

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame struct {
		Event string `json:"event"`
	}
	if err := ws.ReadJSON(&frame); err != nil {
		t.Fatalf("read: %v", err)
	}
	if frame.Event != "error" {
		t.Fatalf("event = %q, want error", frame.Event)
	}
}

// -------------------------
// helpers
// -------------------------

func registerUser(t *testing.T, baseURL, username, email string, isOwner bool) (string, string) {
	t.Helper()

	st, body := doReq(t, baseURL, "POST", "/auth/register", "", map[string]any{
		"username": username,
		"email":    email,
		"password": "secret123",
		"isOwner":  isOwner,
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 register, got %d body=%s", st, string(body))
	}

	var resp struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Token string `json:"token"`
	}
	mustUnmarshal(t, body, &resp)
	if resp.User.ID == "" || resp.Token == "" {
		t.Fatalf("register response incomplete: %s", string(body))
	}
	return resp.User.ID, resp.Token
}

func doReq(t *testing.T, baseURL, method, path, token string, payload any) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, raw
}

func mustUnmarshal(t *testing.T, raw []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(raw, v); err != nil {
		t.Fatalf("unmarshal: %v body=%s", err, string(raw))
	}
}

func dialWS(t *testing.T, baseURL, token string) *websocket.Conn {
	t.Helper()

	wsURL := "ws" + strings.TrimPrefix(baseURL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial ws: %v", err)
	}

	if err := ws.WriteJSON(map[string]any{
		"event":   "login",
		"payload": map[string]string{"token": token},
	}); err != nil {
		t.Fatalf("ws login write: %v", err)
	}

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := ws.ReadJSON(&frame); err != nil {
		t.Fatalf("ws login read: %v", err)
	}
	if frame.Event != "login" {
		t.Fatalf("ws login event = %q body=%s", frame.Event, string(frame.Payload))
	}
	_ = ws.SetReadDeadline(time.Time{})
	return ws
}
