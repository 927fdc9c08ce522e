package server

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/theronnieguidry/teachers-assistant/internal/pipeline"
	"github.com/theronnieguidry/teachers-assistant/internal/types"
)

// GenerateRequest represents the request body for /api/generate
type GenerateRequest struct {
	UserID  string                   `json:"user_id"`
	Title   string                   `json:"title,omitempty"`
	Request *types.GenerationRequest `json:"request"`
}

// GenerateResponse represents the response for /api/generate
type GenerateResponse struct {
	ProjectID string                  `json:"project_id"`
	Status    string                  `json:"status"`
	Result    *types.GenerationResult `json:"result,omitempty"`
}

// CreateProjectRequest represents the request body for /api/projects
type CreateProjectRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
}

// AddCreditsRequest represents the request body for POST /api/users/{id}/credits
type AddCreditsRequest struct {
	Amount int    `json:"amount"`
	Kind   string `json:"kind,omitempty"` // "purchase" (default) or "adjustment"
	Reason string `json:"reason,omitempty"`
}

// handleCreateProject creates a pending project.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID format")
		return
	}
	if req.Title == "" {
		s.errorResponse(w, http.StatusBadRequest, "title is required")
		return
	}

	projectID, err := s.db.CreateProject(r.Context(), userID, req.Title)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, map[string]string{
		"project_id": projectID.String(),
		"status":     string(types.StatusPending),
	})
}

// handleGetProject returns one project with its status.
func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathUUID(w, r, "id", "project")
	if !ok {
		return
	}

	project, err := s.db.GetProject(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if project == nil {
		s.errorResponse(w, http.StatusNotFound, "Project not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, project)
}

// handleListVersions returns all versions of a project, oldest first.
func (s *Server) handleListVersions(w http.ResponseWriter, r *http.Request) {
	projectID, ok := s.pathUUID(w, r, "id", "project")
	if !ok {
		return
	}

	versions, err := s.db.ListVersions(r.Context(), projectID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, versions)
}

// handleGenerate runs a generation synchronously and returns the result.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	req, userID, ok := s.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	result, err := pipeline.Generate(r.Context(), s.deps, req.Request, userID, nil)
	if err != nil {
		log.Printf("Generation failed for project %s: %v", req.Request.ProjectID, err)
		s.errorResponse(w, HTTPStatus(err), pipeline.UserMessage(err))
		return
	}

	s.jsonResponse(w, http.StatusOK, GenerateResponse{
		ProjectID: req.Request.ProjectID.String(),
		Status:    string(types.StatusCompleted),
		Result:    result,
	})
}

// handleGenerateStream runs a generation and streams progress as SSE events.
func (s *Server) handleGenerateStream(w http.ResponseWriter, r *http.Request) {
	req, userID, ok := s.decodeGenerateRequest(w, r)
	if !ok {
		return
	}

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	onProgress := func(event pipeline.ProgressEvent) {
		sse.WriteEvent("progress", event) //nolint:errcheck
	}

	result, err := pipeline.Generate(r.Context(), s.deps, req.Request, userID, onProgress)
	if err != nil {
		log.Printf("Generation failed for project %s: %v", req.Request.ProjectID, err)
		sse.WriteError(pipeline.UserMessage(err))
		sse.WriteComplete(req.Request.ProjectID.String(), string(types.StatusFailed))
		return
	}

	sse.WriteEvent("result", result) //nolint:errcheck
	sse.WriteComplete(req.Request.ProjectID.String(), string(types.StatusCompleted))
}

// handleGetBalance returns a user's credit balance.
func (s *Server) handleGetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	balance, err := s.db.GetBalance(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"user_id": userID.String(),
		"balance": balance,
	})
}

// handleAddCredits credits a user's account (purchase or manual adjustment).
func (s *Server) handleAddCredits(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	var req AddCreditsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Amount <= 0 {
		s.errorResponse(w, http.StatusBadRequest, "amount must be positive")
		return
	}

	kind := types.LedgerPurchase
	if req.Kind == string(types.LedgerAdjustment) {
		kind = types.LedgerAdjustment
	}
	reason := req.Reason
	if reason == "" {
		reason = "credit purchase"
	}

	if err := s.db.AddCredits(r.Context(), userID, req.Amount, kind, reason); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	balance, err := s.db.GetBalance(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"user_id": userID.String(),
		"balance": balance,
	})
}

// handleListLedger returns a user's most recent ledger entries.
func (s *Server) handleListLedger(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.pathUUID(w, r, "id", "user")
	if !ok {
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = parsed
	}

	entries, err := s.db.ListLedger(r.Context(), userID, limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, entries)
}

// decodeGenerateRequest parses and validates the shared generate request body.
func (s *Server) decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (*GenerateRequest, uuid.UUID, bool) {
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return nil, uuid.Nil, false
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID format")
		return nil, uuid.Nil, false
	}
	if req.Request == nil {
		s.errorResponse(w, http.StatusBadRequest, "request is required")
		return nil, uuid.Nil, false
	}

	// Create the project on the fly when the caller didn't pre-create one.
	if req.Request.ProjectID == uuid.Nil {
		title := req.Title
		if title == "" {
			title = req.Request.Subject
		}
		projectID, err := s.db.CreateProject(r.Context(), userID, title)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return nil, uuid.Nil, false
		}
		req.Request.ProjectID = projectID
	}

	if err := req.Request.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid generation request: "+err.Error())
		return nil, uuid.Nil, false
	}

	return &req, userID, true
}

// pathUUID extracts and parses a UUID path value, writing the error response
// itself on failure.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, key, label string) (uuid.UUID, bool) {
	raw := r.PathValue(key)
	if raw == "" {
		s.errorResponse(w, http.StatusBadRequest, label+" ID is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+label+" ID format")
		return uuid.Nil, false
	}
	return id, true
}
