package registration

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"pet-boarding/internal/domain/caretakers"
	"pet-boarding/internal/domain/owners"
)

// El registro y los logins viven en su propio paquete porque tocan
// tanto owners como caretakers; ninguno de los dos handlers puede
// importar al otro sin crear un ciclo.

var validate = validator.New()

// RegisterRoutes monta las rutas públicas de autenticación.
func RegisterRoutes(r chi.Router, ownersSvc *owners.Service, caretakersSvc *caretakers.Service) {
	r.Post("/register", registerHandler(ownersSvc, caretakersSvc))
	r.Post("/owner-login", ownerLoginHandler(ownersSvc))
	r.Post("/caretaker-login", caretakerLoginHandler(caretakersSvc))
}

type registerRequest struct {
	Username string `json:"username" validate:"required,min=2"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	IsOwner  bool   `json:"isOwner"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type authResponse struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func registerHandler(ownersSvc *owners.Service, caretakersSvc *caretakers.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		var (
			resp authResponse
			err  error
		)
		if req.IsOwner {
			var o owners.Owner
			var token string
			o, token, err = ownersSvc.Register(r.Context(), owners.RegisterInput{
				Username: req.Username,
				Email:    req.Email,
				Password: req.Password,
			})
			resp = authResponse{
				User: userResponse{
					ID:        o.ID,
					Username:  o.Username,
					Email:     o.Email,
					Role:      string(o.Role),
					CreatedAt: o.CreatedAt,
				},
				Token: token,
			}
		} else {
			var c caretakers.Caretaker
			var token string
			c, token, err = caretakersSvc.Register(r.Context(), caretakers.RegisterInput{
				Username: req.Username,
				Email:    req.Email,
				Password: req.Password,
			})
			resp = authResponse{
				User: userResponse{
					ID:        c.ID,
					Username:  c.Username,
					Email:     c.Email,
					Role:      string(c.Role),
					CreatedAt: c.CreatedAt,
				},
				Token: token,
			}
		}

		if err != nil {
			switch {
			case errors.Is(err, owners.ErrEmailTaken), errors.Is(err, caretakers.ErrEmailTaken):
				http.Error(w, "Email is already registered.", http.StatusBadRequest)
			case errors.Is(err, owners.ErrInvalidInput), errors.Is(err, caretakers.ErrInvalidInput):
				http.Error(w, "invalid input", http.StatusBadRequest)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusCreated, resp)
	}
}

func ownerLoginHandler(svc *owners.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		o, token, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeLoginError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, authResponse{
			User: userResponse{
				ID:        o.ID,
				Username:  o.Username,
				Email:     o.Email,
				Role:      string(o.Role),
				CreatedAt: o.CreatedAt,
			},
			Token: token,
		})
	}
}

func caretakerLoginHandler(svc *caretakers.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := validate.Struct(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		c, token, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			writeLoginError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, authResponse{
			User: userResponse{
				ID:        c.ID,
				Username:  c.Username,
				Email:     c.Email,
				Role:      string(c.Role),
				CreatedAt: c.CreatedAt,
			},
			Token: token,
		})
	}
}

func writeLoginError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, owners.ErrInvalidInput), errors.Is(err, caretakers.ErrInvalidInput):
		http.Error(w, "invalid input", http.StatusBadRequest)
	case errors.Is(err, owners.ErrUnauthenticated), errors.Is(err, caretakers.ErrUnauthenticated):
		http.Error(w, "User not found or password incorrect", http.StatusUnauthorized)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
