package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"inkwell/internal/server/services"
)

type registerRequest struct {
	Handle    string `json:"handle"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
	AvatarKey string `json:"avatarKey"`
}

// requiredFields reports every missing field in one message so the client
// can fix them all at once.
func requiredFields(pairs ...string) string {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return "missing required fields: " + strings.Join(missing, ", ")
}

func (s *HTTPServer) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "malformed request body")
		return
	}
	if msg := requiredFields("handle", req.Handle, "email", req.Email, "password", req.Password); msg != "" {
		writeValidation(w, msg)
		return
	}

	user, err := s.users.Register(r.Context(), services.RegisterParams{
		Handle:    req.Handle,
		Email:     req.Email,
		Secret:    req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		AvatarKey: req.AvatarKey,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  any    `json:"user"`
}

func (s *HTTPServer) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "malformed request body")
		return
	}
	if msg := requiredFields("email", req.Email, "password", req.Password); msg != "" {
		writeValidation(w, msg)
		return
	}

	user, token, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, loginResponse{Token: token, User: user})
}

func (s *HTTPServer) handleMe(w http.ResponseWriter, r *http.Request) {
	writeData(w, http.StatusOK, callerFromContext(r.Context()))
}

type updateDetailsRequest struct {
	Handle    *string `json:"handle"`
	Email     *string `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Bio       *string `json:"bio"`
	AvatarKey *string `json:"avatarKey"`
}

func (s *HTTPServer) handleUpdateDetails(w http.ResponseWriter, r *http.Request) {
	var req updateDetailsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "malformed request body")
		return
	}

	caller := callerFromContext(r.Context())
	user, err := s.users.UpdateProfile(r.Context(), caller.ID, services.ProfileUpdate{
		Handle:    req.Handle,
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Bio:       req.Bio,
		AvatarKey: req.AvatarKey,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeData(w, http.StatusOK, user)
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (s *HTTPServer) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidation(w, "malformed request body")
		return
	}
	if msg := requiredFields("currentPassword", req.CurrentPassword, "newPassword", req.NewPassword); msg != "" {
		writeValidation(w, msg)
		return
	}

	caller := callerFromContext(r.Context())
	if err := s.users.ChangePassword(r.Context(), caller.ID, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, err)
		return
	}

	writeMessage(w, http.StatusOK, "password updated")
}

func (s *HTTPServer) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	caller := callerFromContext(r.Context())
	if err := s.users.Deactivate(r.Context(), caller.ID); err != nil {
		writeError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "account deactivated")
}
