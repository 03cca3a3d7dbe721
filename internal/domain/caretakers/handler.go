package caretakers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-boarding/internal/domain/activities"
	"pet-boarding/internal/domain/owners"
	"pet-boarding/internal/domain/pets"
	"pet-boarding/internal/domain/reservations"
	"pet-boarding/internal/middleware"
)

// RegisterRoutes monta las rutas del caretaker (subrouter /caretaker).
// El caretaker consulta reservas asignadas y loguea accomplishments;
// las lecturas de pets/owners son lookups de solo lectura.
func RegisterRoutes(
	r chi.Router,
	svc *Service,
	reservationsSvc *reservations.Service,
	activitiesSvc *activities.Service,
	petsSvc *pets.Service,
	ownersSvc *owners.Service,
) {
	r.Put("/update-caretaker", updateCaretakerHandler(svc))
	r.Get("/get-caretaker", getCaretakerHandler(svc))
	r.Post("/upload-photo", uploadPhotoHandler(svc))
	r.Get("/get-picture", getPictureHandler(svc))

	r.Get("/get-owner-by-id/{id}", getOwnerByIDHandler(ownersSvc))
	r.Get("/get-pet-by-id/{petID}", getPetByIDHandler(petsSvc))
	r.Get("/get-record/{petID}", getPetRecordHandler(petsSvc))

	r.Get("/get-assigned-reservations", assignedReservationsHandler(svc, reservationsSvc))
	r.Get("/get-assigned-activities/{reservationID}", assignedActivitiesHandler(activitiesSvc))

	r.Put("/accomplish-activity", activities.AccomplishHandler(activitiesSvc))
}

type caretakerResponse struct {
	ID                      string    `json:"id"`
	Username                string    `json:"username"`
	Email                   string    `json:"email"`
	Role                    string    `json:"role"`
	Status                  string    `json:"status,omitempty"`
	AssignedReservationsIDs []string  `json:"assignedReservationsIDs"`
	ProfilePicture          string    `json:"profilePicture,omitempty"`
	CreatedAt               time.Time `json:"createdAt"`
	UpdatedAt               time.Time `json:"updatedAt"`
}

type updateCaretakerRequest struct {
	Username *string `json:"username"`
	Status   *string `json:"status"`
}

func updateCaretakerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateCaretakerRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		c, err := svc.UpdateProfile(r.Context(), claims.UserID, UpdateInput{
			Username: req.Username,
			Status:   req.Status,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCaretakerResponse(c))
	}
}

func getCaretakerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		c, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCaretakerResponse(c))
	}
}

func uploadPhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		data, contentType, ok := owners.ReadUpload(w, r, "photo")
		if !ok {
			return
		}

		c, err := svc.AttachPhoto(r.Context(), claims.UserID, data, contentType)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toCaretakerResponse(c))
	}
}

func getPictureHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		url, err := svc.PictureURL(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"url": url})
	}
}

func getOwnerByIDHandler(ownersSvc *owners.Service) http.HandlerFunc {
	// Vista reducida: el caretaker no ve email ni arrays del owner.
	type ownerSummary struct {
		ID             string `json:"id"`
		Username       string `json:"username"`
		Phone          string `json:"phone,omitempty"`
		ProfilePicture string `json:"profilePicture,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		o, err := ownersSvc.GetByID(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			http.Error(w, "owner not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, ownerSummary{
			ID:             o.ID,
			Username:       o.Username,
			Phone:          o.Phone,
			ProfilePicture: o.ProfilePicture,
		})
	}
}

func getPetByIDHandler(petsSvc *pets.Service) http.HandlerFunc {
	type petSummary struct {
		ID             string  `json:"id"`
		Name           string  `json:"name"`
		Age            int     `json:"age"`
		Breed          string  `json:"breed"`
		Size           string  `json:"size"`
		Weight         float64 `json:"weight,omitempty"`
		ProfilePicture string  `json:"profilePicture,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		p, err := petsSvc.GetByID(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "pet not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, petSummary{
			ID:             p.ID,
			Name:           p.Name,
			Age:            p.Age,
			Breed:          p.Breed,
			Size:           p.Size,
			Weight:         p.Weight,
			ProfilePicture: p.ProfilePicture,
		})
	}
}

func getPetRecordHandler(petsSvc *pets.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		url, err := petsSvc.RecordURL(r.Context(), chi.URLParam(r, "petID"))
		if err != nil {
			http.Error(w, "record not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"url": url})
	}
}

func assignedReservationsHandler(svc *Service, reservationsSvc *reservations.Service) http.HandlerFunc {
	type assignedReservation struct {
		ID            string   `json:"id"`
		OwnerID       string   `json:"ownerID"`
		PetID         string   `json:"petID"`
		StartDate     string   `json:"startDate"`
		EndDate       string   `json:"endDate"`
		ActivitiesIDs []string `json:"activitiesIDs"`
		Confirmed     bool     `json:"confirmed"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		c, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		items, err := reservationsSvc.ListByIDs(r.Context(), c.AssignedReservationsIDs)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]assignedReservation, 0, len(items))
		for _, res := range items {
			out = append(out, assignedReservation{
				ID:            res.ID,
				OwnerID:       res.OwnerID,
				PetID:         res.PetID,
				StartDate:     res.StartDate.Format("2006-01-02"),
				EndDate:       res.EndDate.Format("2006-01-02"),
				ActivitiesIDs: res.ActivitiesIDs,
				Confirmed:     res.Confirmed,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func assignedActivitiesHandler(activitiesSvc *activities.Service) http.HandlerFunc {
	type assignedActivity struct {
		ID             string `json:"id"`
		ReservationID  string `json:"reservationID"`
		Title          string `json:"title"`
		Description    string `json:"description"`
		Frequency      string `json:"frequency"`
		TimesCompleted int    `json:"timesCompleted"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		items, err := activitiesSvc.ListByReservation(r.Context(), chi.URLParam(r, "reservationID"))
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]assignedActivity, 0, len(items))
		for _, a := range items {
			out = append(out, assignedActivity{
				ID:             a.ID,
				ReservationID:  a.ReservationID,
				Title:          a.Title,
				Description:    a.Description,
				Frequency:      a.Frequency,
				TimesCompleted: a.TimesCompleted,
			})
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func toCaretakerResponse(c Caretaker) caretakerResponse {
	return caretakerResponse{
		ID:                      c.ID,
		Username:                c.Username,
		Email:                   c.Email,
		Role:                    string(c.Role),
		Status:                  c.Status,
		AssignedReservationsIDs: c.AssignedReservationsIDs,
		ProfilePicture:          c.ProfilePicture,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "caretaker not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
