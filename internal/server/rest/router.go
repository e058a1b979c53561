package rest

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestIDMiddleware, s.observeMiddleware)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintln(w, "OK")
	}).Methods(http.MethodGet)

	if s.metricsHandler != nil {
		r.Handle("/metrics", s.metricsHandler).Methods(http.MethodGet)
	}

	a := r.PathPrefix("/api/auth").Subrouter()
	a.HandleFunc("/register", s.handleRegister).Methods(http.MethodPost)
	a.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)

	p := r.PathPrefix("/api/passwords").Subrouter()
	p.Use(s.authMiddleware)
	p.HandleFunc("", s.handleListSecrets).Methods(http.MethodGet)
	p.HandleFunc("", s.handleCreateSecret).Methods(http.MethodPost)
	p.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	p.HandleFunc("/{id}", s.handleDeleteSecret).Methods(http.MethodDelete)

	return r
}
