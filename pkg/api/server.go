package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/quillhq/quill/pkg/documents"
	"github.com/quillhq/quill/pkg/httputil"
	"github.com/quillhq/quill/pkg/identity"
	"github.com/quillhq/quill/pkg/observability"
)

// Server represents our API server
type Server struct {
	service *documents.Service
	router  *mux.Router
	logger  *observability.Logger
}

// NewServer creates a new API server. When a verifier is supplied all
// document routes require a valid bearer token; a nil verifier leaves
// authentication to an outer layer (tests, trusted proxies).
func NewServer(service *documents.Service, logger *observability.Logger, verifier identity.TokenVerifier) *Server {
	s := &Server{
		service: service,
		router:  mux.NewRouter(),
		logger:  logger,
	}

	s.setupRoutes(verifier)
	return s
}

// setupRoutes configures all the API routes
func (s *Server) setupRoutes(verifier identity.TokenVerifier) {
	docs := s.router.PathPrefix("/api/documents").Subrouter()
	if verifier != nil {
		docs.Use(identity.Middleware(verifier))
	}

	docs.HandleFunc("", s.createDocument).Methods("POST")
	docs.HandleFunc("/{id}", s.getDocument).Methods("GET")
	docs.HandleFunc("/{id}", s.updateDocument).Methods("PATCH")
	docs.HandleFunc("/{id}", s.deleteDocument).Methods("DELETE")
	docs.HandleFunc("/{id}/members", s.listMembers).Methods("GET")
	docs.HandleFunc("/{id}/users", s.listUsers).Methods("GET")
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// principal extracts the authenticated caller or writes a 401
func principal(w http.ResponseWriter, r *http.Request) (*identity.Principal, bool) {
	p, ok := identity.FromContext(r.Context())
	if !ok {
		httputil.WriteUnauthorized(w, "authentication required")
		return nil, false
	}
	return p, true
}
