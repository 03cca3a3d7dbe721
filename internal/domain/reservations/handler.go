package reservations

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

// RegisterRoutes monta las rutas de reservas del owner (subrouter /owner).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/create-reservation", createReservationHandler(svc))
	r.Put("/confirm-reservation", confirmReservationHandler(svc))
	r.Delete("/cancel-reservation", cancelReservationHandler(svc))
	r.Get("/get-reservations", listReservationsHandler(svc))
}

type createReservationRequest struct {
	PetID     string `json:"petID" validate:"required"`
	StartDate string `json:"startDate" validate:"required"` // YYYY-MM-DD
	EndDate   string `json:"endDate" validate:"required"`   // YYYY-MM-DD
}

type reservationIDRequest struct {
	ReservationID string `json:"reservationID" validate:"required"`
}

type reservationResponse struct {
	ID            string    `json:"id"`
	OwnerID       string    `json:"ownerID"`
	PetID         string    `json:"petID"`
	StartDate     string    `json:"startDate"`
	EndDate       string    `json:"endDate"`
	ActivitiesIDs []string  `json:"activitiesIDs"`
	Confirmed     bool      `json:"confirmed"`
	CreatedAt     time.Time `json:"createdAt"`
}

func createReservationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createReservationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			http.Error(w, "startDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		end, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			http.Error(w, "endDate must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}

		res, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			PetID:     req.PetID,
			StartDate: start,
			EndDate:   end,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toReservationResponse(res))
	}
}

func confirmReservationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req reservationIDRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		res, err := svc.Confirm(r.Context(), claims.UserID, req.ReservationID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toReservationResponse(res))
	}
}

func cancelReservationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req reservationIDRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		if err := svc.Cancel(r.Context(), claims.UserID, req.ReservationID); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "reservation canceled"})
	}
}

func listReservationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]reservationResponse, 0, len(items))
		for _, res := range items {
			out = append(out, toReservationResponse(res))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toReservationResponse(res Reservation) reservationResponse {
	return reservationResponse{
		ID:            res.ID,
		OwnerID:       res.OwnerID,
		PetID:         res.PetID,
		StartDate:     res.StartDate.Format("2006-01-02"),
		EndDate:       res.EndDate.Format("2006-01-02"),
		ActivitiesIDs: res.ActivitiesIDs,
		Confirmed:     res.Confirmed,
		CreatedAt:     res.CreatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "reservation not found", http.StatusNotFound)
	case errors.Is(err, ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	case errors.Is(err, ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrNoActivities):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
