package server

import (
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/jmcampos/techexpert/internal/chat"
	"github.com/jmcampos/techexpert/internal/extract"
	"github.com/jmcampos/techexpert/internal/history"
	"github.com/jmcampos/techexpert/internal/llm"
)

const maxUploadBytes = 32 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chat.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	result, err := s.engine.Respond(r.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		if llm.IsQuota(err) {
			status = http.StatusTooManyRequests
		}
		writeError(w, status, chat.ErrorMessage(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docs.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// createDocumentRequest is the JSON body form of document creation, for
// clients that extracted text themselves.
type createDocumentRequest struct {
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		s.handleUploadDocument(w, r)
		return
	}

	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Filename == "" || strings.TrimSpace(req.Content) == "" {
		writeError(w, http.StatusBadRequest, "filename and content are required")
		return
	}

	id, err := s.docs.Save(r.Context(), filepath.Base(req.Filename), req.Content)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save document")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "filename": filepath.Base(req.Filename)})
}

// handleUploadDocument accepts a raw .txt or .pdf upload and runs it through
// text extraction before saving.
func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	// PDF extraction needs a seekable file, so stage the upload on disk.
	tmp, err := os.CreateTemp("", "techexpert-upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}
	defer os.Remove(tmp.Name())
	defer tmp.Close()

	if _, err := io.Copy(tmp, file); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to stage upload")
		return
	}

	content, err := extract.FromFile(tmp.Name())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	if strings.TrimSpace(content) == "" {
		writeError(w, http.StatusUnprocessableEntity, "no text could be extracted from the file")
		return
	}

	name := filepath.Base(header.Filename)
	id, err := s.docs.Save(r.Context(), name, content)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save document")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": id, "filename": name})
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return
	}

	deleted, err := s.docs.Delete(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to delete document")
		return
	}
	if !deleted {
		writeError(w, http.StatusNotFound, "document not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.history.Load()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load history")
		return
	}
	if sessions == nil {
		sessions = []history.Session{}
	}
	writeJSON(w, http.StatusOK, sessions)
}

// handleSaveHistory replaces the stored history with the sessions the UI
// holds, mirroring how the desktop app rewrites its history file after
// every exchange.
func (s *Server) handleSaveHistory(w http.ResponseWriter, r *http.Request) {
	var sessions []history.Session
	if err := json.NewDecoder(r.Body).Decode(&sessions); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.history.Save(sessions); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// appendMessageRequest is the incremental write form: one message for an
// existing session, or a new session when session_id is empty.
type appendMessageRequest struct {
	SessionID string         `json:"session_id"`
	Sender    string         `json:"sender"`
	Parts     []history.Part `json:"parts"`
}

func (s *Server) handleAppendHistoryMessage(w http.ResponseWriter, r *http.Request) {
	var req appendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Sender == "" || len(req.Parts) == 0 {
		writeError(w, http.StatusBadRequest, "sender and parts are required")
		return
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sess, err := s.history.NewSession()
		if err != nil {
			writeError(w, http.StatusInternalServerError, "failed to create session")
			return
		}
		sessionID = sess.ID
	}

	if err := s.history.Append(sessionID, history.Message{Sender: req.Sender, Parts: req.Parts}); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to append message")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"session_id": sessionID})
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.history.Clear(); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to clear history")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
