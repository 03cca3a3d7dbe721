package notifications

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"pet-boarding/internal/middleware"
	"pet-boarding/internal/ports/auth"
)

// RegisterRoutes monta las rutas de notificaciones (subrouter /notification).
// Un owner solo accede a sus propias notificaciones; admin accede a todas.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Get("/{ownerID}", listByOwnerHandler(svc))
	r.Delete("/{id}", deleteHandler(svc))
	r.Delete("/owner/{ownerID}", deleteAllByOwnerHandler(svc))
}

type notificationResponse struct {
	ID             string `json:"id"`
	OwnerID        string `json:"ownerID"`
	CaretakerID    string `json:"caretakerID"`
	CaretakerName  string `json:"caretakerName"`
	PetID          string `json:"petID"`
	PetName        string `json:"petName"`
	Activity       string `json:"activity"`
	TimesCompleted int    `json:"timesCompleted"`
	Date           string `json:"date"`
	Time           string `json:"time"`
}

func listByOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownedParam(w, r, "ownerID")
		if !ok {
			return
		}

		items, err := svc.ListByOwner(r.Context(), ownerID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if len(items) == 0 {
			http.Error(w, "no notifications found", http.StatusNotFound)
			return
		}

		out := make([]notificationResponse, 0, len(items))
		for _, n := range items {
			out = append(out, toNotificationResponse(n))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())
		id := chi.URLParam(r, "id")

		n, err := svc.GetByID(r.Context(), id)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if claims.Role != auth.RoleAdmin && claims.UserID != n.OwnerID {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "notification deleted"})
	}
}

func deleteAllByOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ownerID, ok := ownedParam(w, r, "ownerID")
		if !ok {
			return
		}

		if err := svc.DeleteAllByOwner(r.Context(), ownerID); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "notifications deleted"})
	}
}

// ownedParam extrae el ownerID de la URL y exige que coincida con el
// usuario autenticado (salvo admin).
func ownedParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	claims, _ := middleware.GetClaims(r.Context())

	raw := chi.URLParam(r, name)
	ownerID, err := url.PathUnescape(raw)
	if err != nil || ownerID == "" {
		http.Error(w, name+" is required", http.StatusBadRequest)
		return "", false
	}

	if claims.Role != auth.RoleAdmin && claims.UserID != ownerID {
		http.Error(w, "forbidden", http.StatusForbidden)
		return "", false
	}

	return ownerID, true
}

func toNotificationResponse(n Notification) notificationResponse {
	return notificationResponse{
		ID:             n.ID,
		OwnerID:        n.OwnerID,
		CaretakerID:    n.CaretakerID,
		CaretakerName:  n.CaretakerName,
		PetID:          n.PetID,
		PetName:        n.PetName,
		Activity:       n.Activity,
		TimesCompleted: n.TimesCompleted,
		Date:           n.Date,
		Time:           n.Time,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "notification not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
