package api

import (
	"net/http"

	"github.com/quillhq/quill/pkg/httputil"
	"github.com/quillhq/quill/pkg/rooms"
)

// createDocument handles POST /api/documents
func (s *Server) createDocument(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	room, err := s.service.Create(r.Context(), p.UserID, p.Email)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	httputil.WriteCreated(w, newDocumentResponse(room, ""))
}

// getDocument handles GET /api/documents/{id}
func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	room, role, err := s.service.Get(r.Context(), id, p.Email)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	httputil.WriteSuccess(w, newDocumentResponse(room, role))
}

// updateDocument handles PATCH /api/documents/{id}
func (s *Server) updateDocument(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	var req UpdateTitleRequest
	if !httputil.ParseJSONOrError(w, r, &req) {
		return
	}
	if !httputil.RequireNonEmpty(w, req.Title, "title") {
		return
	}

	room, err := s.service.UpdateTitle(r.Context(), id, req.Title)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	httputil.WriteSuccess(w, newDocumentResponse(room, ""))
}

// deleteDocument handles DELETE /api/documents/{id}
func (s *Server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	if err := s.service.Delete(r.Context(), id); err != nil {
		s.writeServiceError(w, err)
		return
	}

	httputil.WriteNoContent(w)
}

// listMembers handles GET /api/documents/{id}/members
func (s *Server) listMembers(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	search := httputil.ParseQueryString(r, "search", "")
	emails, err := s.service.ListMembers(r.Context(), id, p.Email, search)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	httputil.WriteSuccess(w, MembersResponse{Emails: emails})
}

// listUsers handles GET /api/documents/{id}/users
func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := principal(w, r); !ok {
		return
	}
	id, ok := httputil.ParsePathStringOrError(w, r, "id")
	if !ok {
		return
	}

	users, err := s.service.ListUsers(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, err)
		return
	}

	httputil.WriteSuccess(w, UsersResponse{Users: users})
}

// writeServiceError maps store error types onto HTTP status codes
func (s *Server) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case rooms.IsNotFound(err):
		httputil.WriteNotFoundError(w, err.Error())
	case rooms.IsConflict(err):
		httputil.WriteConflict(w, err.Error())
	case rooms.IsValidation(err):
		httputil.WriteValidationError(w, err.Error())
	case rooms.IsAccessDenied(err):
		httputil.WriteForbidden(w, err.Error())
	case rooms.IsUnavailable(err):
		httputil.WriteServiceUnavailable(w, err.Error())
	default:
		s.logger.WithError(err).Error("unhandled service error")
		httputil.WriteInternalError(w, err)
	}
}
