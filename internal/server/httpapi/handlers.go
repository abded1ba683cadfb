package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/notesafe/notesafe/internal/server/auth"
	"github.com/notesafe/notesafe/internal/server/notes"
)

// maxNoteBodySize caps request payloads; note bodies are text, not blobs.
const maxNoteBodySize = 4 << 20

type noteRequest struct {
	Body string   `json:"body"`
	Tags []string `json:"tags,omitempty"`
}

type attachmentRequest struct {
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type,omitempty"`
}

type attachmentResponse struct {
	ID        string `json:"id"`
	FileName  string `json:"file_name"`
	UploadURL string `json:"upload_url,omitempty"`
	URL       string `json:"url,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorResponse{Error: code})
}

// owner builds the note-operation scope from the principal the gate
// attached. Handlers never take a user id from the payload.
func owner(r *http.Request) notes.Owner {
	p := auth.PrincipalFromContext(r.Context())
	return notes.Owner{UserID: p.UserID, ExternalID: p.ExternalID, Key: p.Key}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxNoteBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "OK"})
}

func (s *Server) handleCreateNote(w http.ResponseWriter, r *http.Request) {

	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	note, err := s.notes.Create(r.Context(), owner(r), req.Body, req.Tags)
	if err != nil {
		s.logger.Error(r.Context(), "create note failed", "error", err.Error())
		status, code := httpStatus(err)
		writeError(w, status, code)
		return
	}

	writeJSON(w, http.StatusCreated, note)
}

func (s *Server) handleListNotes(w http.ResponseWriter, r *http.Request) {

	tag := r.URL.Query().Get("tag")

	result, err := s.notes.List(r.Context(), owner(r), tag)
	if err != nil {
		s.logger.Error(r.Context(), "list notes failed", "error", err.Error())
		status, code := httpStatus(err)
		writeError(w, status, code)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetNote(w http.ResponseWriter, r *http.Request) {

	note, err := s.notes.Get(r.Context(), owner(r), chi.URLParam(r, "noteID"))
	if err != nil {
		status, code := httpStatus(err)
		writeError(w, status, code)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleUpdateNote(w http.ResponseWriter, r *http.Request) {

	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	note, err := s.notes.Update(r.Context(), owner(r), chi.URLParam(r, "noteID"), req.Body, req.Tags)
	if err != nil {
		status, code := httpStatus(err)
		writeError(w, status, code)
		return
	}

	writeJSON(w, http.StatusOK, note)
}

func (s *Server) handleDeleteNote(w http.ResponseWriter, r *http.Request) {

	if err := s.notes.Delete(r.Context(), owner(r), chi.URLParam(r, "noteID")); err != nil {
		status, code := httpStatus(err)
		writeError(w, status, code)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRegisterAttachment(w http.ResponseWriter, r *http.Request) {

	var req attachmentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.FileName == "" {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	p := auth.PrincipalFromContext(r.Context())
	att, uploadURL, err := s.attachments.RegisterUpload(r.Context(), p.UserID, chi.URLParam(r, "noteID"), req.FileName, req.ContentType)
	if err != nil {
		s.logger.Error(r.Context(), "register attachment failed", "error", err.Error())
		status, code := httpStatus(err)
		writeError(w, status, code)
		return
	}

	writeJSON(w, http.StatusCreated, attachmentResponse{ID: att.ID, FileName: att.FileName, UploadURL: uploadURL})
}

func (s *Server) handleAttachmentURL(w http.ResponseWriter, r *http.Request) {

	p := auth.PrincipalFromContext(r.Context())
	url, err := s.attachments.DownloadURL(r.Context(), p.UserID, chi.URLParam(r, "noteID"), chi.URLParam(r, "attachmentID"))
	if err != nil {
		status, code := httpStatus(err)
		writeError(w, status, code)
		return
	}

	writeJSON(w, http.StatusOK, attachmentResponse{ID: chi.URLParam(r, "attachmentID"), URL: url})
}
