package owners

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pet-boarding/internal/middleware"
)

const maxUploadBytes = 10 << 20 // 10MB por foto

// RegisterRoutes monta las rutas self-service del owner.
// El router ya aplicó RequireRole(OWNER, ADMIN) sobre este subrouter.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Put("/update-owner", updateOwnerHandler(svc))
	r.Post("/upload-photo", uploadPhotoHandler(svc))
	r.Get("/get-picture", getPictureHandler(svc))
	r.Get("/get-owner", getOwnerHandler(svc))
}

type ownerResponse struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Role            string    `json:"role"`
	Phone           string    `json:"phone,omitempty"`
	Status          string    `json:"status,omitempty"`
	PetsIDs         []string  `json:"petsIDs"`
	ReservationsIDs []string  `json:"reservationsIDs"`
	ProfilePicture  string    `json:"profilePicture,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

type updateOwnerRequest struct {
	// Punteros para update parcial: nil = no tocar.
	Username *string `json:"username"`
	Phone    *string `json:"phone"`
	Status   *string `json:"status"`
}

func updateOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateOwnerRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		o, err := svc.UpdateProfile(r.Context(), claims.UserID, UpdateInput{
			Username: req.Username,
			Phone:    req.Phone,
			Status:   req.Status,
		})
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

func getOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		o, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOwnerResponse(o))
	}
}

func uploadPhotoHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context())

		data, contentType, ok := ReadUpload(w, r, "photo")
		if !ok {
			return
		}

		o, err := svc.AttachPhoto(r.Context(), claims.UserID, data, contentType)
		if err != nil {
			writeServiceError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toOwnerResponse(o))
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

// ReadUpload extrae un archivo multipart y responde el error HTTP si falla.
// Lo reutilizan los handlers de pets y caretakers.
func ReadUpload(w http.ResponseWriter, r *http.Request, field string) ([]byte, string, bool) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return nil, "", false
	}

	file, header, err := r.FormFile(field)
	if err != nil {
		http.Error(w, field+" file is required", http.StatusBadRequest)
		return nil, "", false
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil || len(data) == 0 || len(data) > maxUploadBytes {
		http.Error(w, "invalid upload", http.StatusBadRequest)
		return nil, "", false
	}

	return data, header.Header.Get("Content-Type"), true
}

func toOwnerResponse(o Owner) ownerResponse {
	return ownerResponse{
		ID:              o.ID,
		Username:        o.Username,
		Email:           o.Email,
		Role:            string(o.Role),
		Phone:           o.Phone,
		Status:          o.Status,
		PetsIDs:         o.PetsIDs,
		ReservationsIDs: o.ReservationsIDs,
		ProfilePicture:  o.ProfilePicture,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrNotFound):
		http.Error(w, "owner not found", http.StatusNotFound)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
