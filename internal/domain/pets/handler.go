package pets

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"pet-boarding/internal/domain/owners"
	"pet-boarding/internal/middleware"
)

var validate = validator.New()

// RegisterRoutes monta las rutas pet del owner (subrouter /owner).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Post("/create-pet", createPetHandler(svc))
	r.Delete("/delete-pet", deletePetHandler(svc))
	r.Put("/update-pet", updatePetHandler(svc))
	r.Get("/get-pets-by-owner", listPetsHandler(svc))
	r.Post("/upload-pet-photo", uploadPetPhotoHandler(svc))
	r.Get("/get-pet-picture", getPetPictureHandler(svc))
	r.Post("/upload-record", uploadRecordHandler(svc))
}

type createPetRequest struct {
	Name   string  `json:"name" validate:"required"`
	Age    int     `json:"age" validate:"gte=0"`
	Breed  string  `json:"breed" validate:"required"`
	Size   string  `json:"size" validate:"omitempty,oneof=S M L"`
	Weight float64 `json:"weight" validate:"gte=0"`
}

type petResponse struct {
	ID                 string    `json:"id"`
	OwnerID            string    `json:"ownerID"`
	Name               string    `json:"name"`
	Age                int       `json:"age"`
	Breed              string    `json:"breed"`
	Size               string    `json:"size"`
	Weight             float64   `json:"weight,omitempty"`
	ProfilePicture     string    `json:"profilePicture,omitempty"`
	Record             string    `json:"record,omitempty"`
	CurrentReservation string    `json:"currentReservation,omitempty"`
	CreatedAt          time.Time `json:"createdAt"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

type deletePetRequest struct {
	PetID string `json:"petID" validate:"required"`
}

type updatePetRequest struct {
	PetID string `json:"petID" validate:"required"`

	// Punteros para update parcial: nil = no tocar.
	Name   *string  `json:"name"`
	Age    *int     `json:"age"`
	Breed  *string  `json:"breed"`
	Size   *string  `json:"size"`
	Weight *float64 `json:"weight"`
}

func createPetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req createPetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		p, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:   req.Name,
			Age:    req.Age,
			Breed:  req.Breed,
			Size:   req.Size,
			Weight: req.Weight,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toPetResponse(p))
	}
}

func deletePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		var req deletePetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, req.PetID); err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"message": "pet deleted"})
	}
}

func updatePetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updatePetRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		p, err := svc.UpdateProfile(r.Context(), claims.UserID, req.PetID, UpdateInput{
			Name:   req.Name,
			Age:    req.Age,
			Breed:  req.Breed,
			Size:   req.Size,
			Weight: req.Weight,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func listPetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]petResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toPetResponse(p))
		}

		writeJSON(w, http.StatusOK, out)
	}
}

func uploadPetPhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		data, contentType, ok := owners.ReadUpload(w, r, "photo")
		if !ok {
			return
		}

		petID := strings.TrimSpace(r.FormValue("petID"))
		if petID == "" {
			http.Error(w, "petID is required", http.StatusBadRequest)
			return
		}

		p, err := svc.AttachPhoto(r.Context(), claims.UserID, petID, data, contentType)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func uploadRecordHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		data, contentType, ok := owners.ReadUpload(w, r, "record")
		if !ok {
			return
		}

		petID := strings.TrimSpace(r.FormValue("petID"))
		if petID == "" {
			http.Error(w, "petID is required", http.StatusBadRequest)
			return
		}

		p, err := svc.AttachRecord(r.Context(), claims.UserID, petID, data, contentType)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toPetResponse(p))
	}
}

func getPetPictureHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		petID := strings.TrimSpace(r.URL.Query().Get("petID"))
		if petID == "" {
			http.Error(w, "petID is required", http.StatusBadRequest)
			return
		}

		url, err := svc.PictureURL(r.Context(), petID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]string{"url": url})
	}
}

func toPetResponse(p Pet) petResponse {
	return petResponse{
		ID:                 p.ID,
		OwnerID:            p.OwnerID,
		Name:               p.Name,
		Age:                p.Age,
		Breed:              p.Breed,
		Size:               p.Size,
		Weight:             p.Weight,
		ProfilePicture:     p.ProfilePicture,
		Record:             p.Record,
		CurrentReservation: p.CurrentReservation,
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "pet not found", http.StatusNotFound)
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
