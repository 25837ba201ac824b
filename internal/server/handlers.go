package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/hyperjump/kaiseki/internal/models"
)

// Error codes in the structured error envelope.
const (
	codeBadRequest          = "bad_request"
	codeEmptyInput          = "empty_input"
	codeNoCorpus            = "no_corpus"
	codeCollaboratorFailure = "collaborator_failure"
	codeInternal            = "internal"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req models.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, codeBadRequest, "invalid request body")
		return
	}
	s.logger.Debug("analyze request",
		zap.Int("question_len", len(req.Question)),
		zap.Int("article_len", len(req.Article)),
	)
	resp, err := s.service.Analyze(r.Context(), &req)
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Reindex(r.Context()); err != nil {
		s.respondServiceError(w, err)
		return
	}
	status, err := s.service.Status(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status, err := s.service.Status(r.Context())
	if err != nil {
		s.respondServiceError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// respondServiceError maps sentinel errors to the structured envelope.
func (s *Server) respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrEmptyInput):
		s.respondError(w, http.StatusBadRequest, codeEmptyInput, err.Error())
	case errors.Is(err, models.ErrIndexBuild), errors.Is(err, models.ErrIndexUnavailable):
		s.respondError(w, http.StatusNotFound, codeNoCorpus, err.Error())
	case errors.Is(err, models.ErrExternalService):
		s.logger.Error("collaborator failure", zap.Error(err))
		s.respondError(w, http.StatusBadGateway, codeCollaboratorFailure, err.Error())
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, codeInternal, err.Error())
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}
