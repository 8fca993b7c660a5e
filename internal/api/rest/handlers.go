package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/redscope/engagement-backend/internal/domain/activity"
	"github.com/redscope/engagement-backend/internal/domain/errors"
	"github.com/redscope/engagement-backend/internal/domain/finding"
	"github.com/redscope/engagement-backend/internal/domain/project"
	"github.com/redscope/engagement-backend/internal/service/analytics"
	"github.com/redscope/engagement-backend/internal/service/ingestion"
	"github.com/redscope/engagement-backend/internal/service/recon"
	"github.com/redscope/engagement-backend/internal/service/triage"
	"github.com/redscope/engagement-backend/internal/store"
)

// Handler exposes the engagement query and mutation surface.
type Handler struct {
	logger    *slog.Logger
	store     *store.Store
	analytics analytics.Service
	triage    triage.Service
	recon     recon.Service
	ingest    ingestion.Service
}

// NewHandler creates the API handler.
func NewHandler(logger *slog.Logger, st *store.Store, an analytics.Service, tr triage.Service, rc recon.Service, ing ingestion.Service) *Handler {
	return &Handler{
		logger:    logger,
		store:     st,
		analytics: an,
		triage:    tr,
		recon:     rc,
		ingest:    ing,
	}
}

// RegisterRoutes wires all endpoints onto the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/projects", h.listProjects)
	mux.HandleFunc("POST /api/v1/projects", h.createProject)
	mux.HandleFunc("GET /api/v1/projects/{id}", h.getProject)
	mux.HandleFunc("DELETE /api/v1/projects/{id}", h.deleteProject)
	mux.HandleFunc("GET /api/v1/projects/{id}/people", h.listPeople)
	mux.HandleFunc("GET /api/v1/projects/{id}/findings", h.listFindings)
	mux.HandleFunc("GET /api/v1/projects/{id}/stats", h.projectStats)
	mux.HandleFunc("GET /api/v1/projects/{id}/severity", h.severityBreakdown)
	mux.HandleFunc("GET /api/v1/projects/{id}/board", h.statusBoard)
	mux.HandleFunc("GET /api/v1/stats", h.globalStats)
	mux.HandleFunc("GET /api/v1/activity", h.activityFeed)
	mux.HandleFunc("GET /api/v1/activity/timeline", h.activityTimeline)
	mux.HandleFunc("POST /api/v1/ingest", h.ingestBatch)
	mux.HandleFunc("POST /api/v1/people/{id}/tags", h.tagPerson)
	mux.HandleFunc("POST /api/v1/findings/{id}/transition", h.transitionFinding)
	mux.HandleFunc("POST /api/v1/findings/{id}/assign", h.assignFinding)
	mux.HandleFunc("POST /api/v1/findings/{id}/reopen", h.reopenFinding)
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.NewValidationError("INVALID_BODY", "malformed request body").WithCause(err)
	}
	return nil
}

// --- queries ---

func (h *Handler) listProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.analytics.ProjectsWithStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (h *Handler) getProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.analytics.ProjectWithStats(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *Handler) listPeople(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.store.GetProject(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.PeopleByProject(id))
}

func (h *Handler) listFindings(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := h.store.GetProject(id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.store.FindingsByProject(id))
}

func (h *Handler) projectStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.Stats(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) globalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.analytics.GlobalStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) severityBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.analytics.SeverityBreakdown(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}

func (h *Handler) statusBoard(w http.ResponseWriter, r *http.Request) {
	board, err := h.analytics.StatusBoard(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, board)
}

func (h *Handler) activityFeed(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, errors.NewValidationError("INVALID_LIMIT", "limit must be a positive integer"))
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, h.analytics.ActivityFeed(r.Context(), limit))
}

func (h *Handler) activityTimeline(w http.ResponseWriter, r *http.Request) {
	weeks := 8
	if raw := r.URL.Query().Get("weeks"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, errors.NewValidationError("INVALID_RANGE", "weeks must be an integer"))
			return
		}
		weeks = n
	}
	buckets, err := h.analytics.Timeline(r.Context(), weeks)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, buckets)
}

// --- mutations ---

type createProjectRequest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Target      string   `json:"target"`
	Scope       []string `json:"scope"`
	NDASigned   bool     `json:"nda_signed"`
	TeamMembers []string `json:"team_members"`
	Actor       string   `json:"actor"`
}

func (h *Handler) createProject(w http.ResponseWriter, r *http.Request) {
	var req createProjectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}

	p, err := project.New(req.ID, req.Name, req.Target, req.Scope)
	if err != nil {
		writeError(w, err)
		return
	}
	p.NDASigned = req.NDASigned
	p.TeamMembers = req.TeamMembers

	actor := actorOrSystem(req.Actor)
	event := activity.New(actor,
		fmt.Sprintf("%s created project %q", actor, p.Name),
		activity.RefProject, p.ID)
	if err := h.store.CreateProject(p, event); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, p)
}

func (h *Handler) deleteProject(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	p, err := h.store.GetProject(id)
	if err != nil {
		writeError(w, err)
		return
	}
	actor := actorOrSystem(r.URL.Query().Get("actor"))
	event := activity.New(actor,
		fmt.Sprintf("%s deleted project %q", actor, p.Name),
		activity.RefProject, id)
	if err := h.store.DeleteProject(id, event); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ingestBatch(w http.ResponseWriter, r *http.Request) {
	var batch ingestion.Batch
	if err := decodeBody(r, &batch); err != nil {
		writeError(w, err)
		return
	}
	summary, err := h.ingest.Ingest(r.Context(), batch)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

type tagPersonRequest struct {
	Tags  []string `json:"tags"`
	Actor string   `json:"actor"`
}

func (h *Handler) tagPerson(w http.ResponseWriter, r *http.Request) {
	var req tagPersonRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	p, err := h.recon.TagPerson(r.Context(), r.PathValue("id"), req.Tags, req.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type transitionRequest struct {
	Target string `json:"target"`
	Actor  string `json:"actor"`
}

func (h *Handler) transitionFinding(w http.ResponseWriter, r *http.Request) {
	var req transitionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	f, err := h.triage.Transition(r.Context(), r.PathValue("id"), finding.Status(req.Target), req.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

type assignRequest struct {
	Assignee string `json:"assignee"`
	Actor    string `json:"actor"`
}

func (h *Handler) assignFinding(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	f, err := h.triage.Assign(r.Context(), r.PathValue("id"), req.Assignee, req.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

type reopenRequest struct {
	Actor string `json:"actor"`
}

func (h *Handler) reopenFinding(w http.ResponseWriter, r *http.Request) {
	var req reopenRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	f, err := h.triage.Reopen(r.Context(), r.PathValue("id"), req.Actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func actorOrSystem(actor string) string {
	if actor == "" {
		return "system"
	}
	return actor
}
