package activities

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"pet-boarding/internal/middleware"
)

var validate = validator.New()

// RegisterOwnerRoutes monta las rutas de actividades del owner
// (subrouter /owner).
func RegisterOwnerRoutes(r chi.Router, svc *Service) {
	r.Post("/create-activity", createActivityHandler(svc))
	r.Delete("/delete-activity", deleteActivityHandler(svc))
	r.Get("/get-activities/{reservationID}", listActivitiesHandler(svc))
}

type createActivityRequest struct {
	ReservationID string `json:"reservationID" validate:"required"`
	Title         string `json:"title" validate:"required"`
	Description   string `json:"description" validate:"required"`
	Frequency     string `json:"frequency" validate:"required"`
}

type deleteActivityRequest struct {
	ActivityID string `json:"activityID" validate:"required"`
}

type activityResponse struct {
	ID             string    `json:"id"`
	ReservationID  string    `json:"reservationID"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Frequency      string    `json:"frequency"`
	TimesCompleted int       `json:"timesCompleted"`
	CreatedAt      time.Time `json:"createdAt"`
}

func createActivityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createActivityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			ReservationID: req.ReservationID,
			Title:         req.Title,
			Description:   req.Description,
			Frequency:     req.Frequency,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toActivityResponse(a))
	}
}

func deleteActivityHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req deleteActivityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, req.ActivityID); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "activity deleted"})
	}
}

func listActivitiesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reservationID := chi.URLParam(r, "reservationID")

		items, err := svc.ListByReservation(r.Context(), reservationID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]activityResponse, 0, len(items))
		for _, a := range items {
			out = append(out, toActivityResponse(a))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

// AccomplishHandler expone el accomplish para el subrouter /caretaker.
func AccomplishHandler(svc *Service) http.HandlerFunc {
	type accomplishRequest struct {
		ActivityID string `json:"activityID" validate:"required"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req accomplishRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		a, err := svc.Accomplish(r.Context(), claims.UserID, req.ActivityID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toActivityResponse(a))
	}
}

func toActivityResponse(a Activity) activityResponse {
	return activityResponse{
		ID:             a.ID,
		ReservationID:  a.ReservationID,
		Title:          a.Title,
		Description:    a.Description,
		Frequency:      a.Frequency,
		TimesCompleted: a.TimesCompleted,
		CreatedAt:      a.CreatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "activity not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
