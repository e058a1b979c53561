package rest

import (
	"net/http"

	"github.com/dmitrijs2005/passvault/internal/common"
	"github.com/dmitrijs2005/passvault/internal/passgen"
	"github.com/dmitrijs2005/passvault/internal/server/models"
	"github.com/dmitrijs2005/passvault/internal/server/services"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	requireSecondary := true
	if req.RequireSecondaryAuth != nil {
		requireSecondary = *req.RequireSecondaryAuth
	}

	info, err := s.auth.Register(r.Context(), req.Username, req.Password, requireSecondary)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/auth/users/"+info.Username)
	writeJSON(w, http.StatusCreated, registerResponse{
		Username:             info.Username,
		RequireSecondaryAuth: info.RequireSecondaryAuth,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	res, err := s.auth.Login(r.Context(), req.Username, req.Password, req.SecondaryAuthConfirmed)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: res.Token, RequireSecondaryAuth: res.RequireSecondaryAuth})
}

func toSecretResponse(m *models.Secret) secretResponse {
	return secretResponse{
		ID:           m.ID,
		Description:  m.Description,
		Username:     m.Username,
		Secret:       m.Secret,
		CreatedAtUTC: m.CreatedAt.UTC(),
	}
}

func (s *Server) handleListSecrets(w http.ResponseWriter, r *http.Request) {
	owner, ok := AccountIDFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	items, err := s.vault.List(r.Context(), owner)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]secretResponse, 0, len(items))
	for _, it := range items {
		out = append(out, toSecretResponse(it))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateSecret(w http.ResponseWriter, r *http.Request) {
	owner, ok := AccountIDFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	var req createSecretRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	rec, err := s.vault.Create(r.Context(), owner, services.CreateSecretInput{
		Description: req.Description,
		Username:    req.Username,
		Password:    req.Password,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Location", "/api/passwords/"+rec.ID)
	writeJSON(w, http.StatusCreated, toSecretResponse(rec))
}

func (s *Server) handleDeleteSecret(w http.ResponseWriter, r *http.Request) {
	owner, ok := AccountIDFromContext(r.Context())
	if !ok {
		writeError(w, common.ErrorUnauthorized)
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, common.ErrorNotFound)
		return
	}

	if err := s.vault.Delete(r.Context(), owner, id.String()); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	opts := passgen.DefaultOptions()
	if req.Length != nil {
		opts.Length = *req.Length
	}
	if req.IncludeUppercase != nil {
		opts.IncludeUppercase = *req.IncludeUppercase
	}
	if req.IncludeLowercase != nil {
		opts.IncludeLowercase = *req.IncludeLowercase
	}
	if req.IncludeNumbers != nil {
		opts.IncludeNumbers = *req.IncludeNumbers
	}
	if req.IncludeSymbols != nil {
		opts.IncludeSymbols = *req.IncludeSymbols
	}

	password, err := s.vault.Generate(opts)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{Password: password})
}
