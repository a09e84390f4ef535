package server

import (
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/claude/coachplan/internal/doccache"
	"github.com/claude/coachplan/internal/plan"
	"github.com/claude/coachplan/internal/render"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type createPlanRequest struct {
	Title            string    `json:"title"`
	Client           plan.Ref  `json:"client"`
	Goal             plan.Goal `json:"goal"`
	DurationWeeks    int       `json:"durationWeeks"`
	FrequencyPerWeek int       `json:"frequencyPerWeek"`
	Equipment        string    `json:"equipment"`
	Notes            string    `json:"notes"`
}

func planID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid plan id"})
		return uuid.Nil, false
	}
	return id, true
}

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.ListPlans(r.Context(), r.URL.Query().Get("client_id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleCreatePlan(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if !decode(w, r, &req) {
		return
	}
	p := plan.New(req.Title, req.Client, req.Goal, req.DurationWeeks, req.FrequencyPerWeek, s.now())
	p.Equipment = req.Equipment
	p.Notes = req.Notes
	if err := plan.Validate(p); err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.SavePlan(r.Context(), &p, s.now()); err != nil {
		s.writeError(w, err)
		return
	}
	s.log.Info("plan created", "plan_id", p.ID, "user", userInfoFromContext(r).Login)
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}
	p, err := s.store.GetPlan(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// handleReplacePlan saves the whole document. The last write wins.
func (s *Server) handleReplacePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}
	var p plan.WorkoutPlan
	if !decode(w, r, &p) {
		return
	}
	p.ID = id
	p.AssignIDs()
	if err := plan.Validate(p); err != nil {
		s.writeError(w, err)
		return
	}

	existing, err := s.store.GetPlan(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	p.CreatedAt = existing.CreatedAt

	if err := s.store.SavePlan(r.Context(), &p, s.now()); err != nil {
		s.writeError(w, err)
		return
	}
	s.invalidate(id)
	s.log.Info("plan saved", "plan_id", id, "user", userInfoFromContext(r).Login)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlan(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}
	if err := s.store.DeletePlan(r.Context(), id); err != nil {
		s.writeError(w, err)
		return
	}
	s.invalidate(id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) invalidate(id uuid.UUID) {
	if s.cache == nil {
		return
	}
	if _, err := s.cache.Invalidate(id.String()); err != nil {
		s.log.Warn("cache invalidation failed", "plan_id", id, "error", err)
	}
}

// renderRequest loads the plan and its labels and reads style and weeks from
// the query string.
func (s *Server) renderRequest(r *http.Request, id uuid.UUID) (render.Request, error) {
	ctx := r.Context()
	p, err := s.store.GetPlan(ctx, id)
	if err != nil {
		return render.Request{}, err
	}
	weeks, err := render.ParseWeeks(r.URL.Query().Get("weeks"))
	if err != nil {
		return render.Request{}, err
	}
	style := render.Style(r.URL.Query().Get("style"))
	if style == "" {
		style = s.defaultStyle
	}

	req := render.Request{Plan: p, Weeks: weeks, Style: style}
	if p.Client.ID != "" {
		if c, err := s.store.GetClient(ctx, p.Client.ID); err == nil {
			req.ClientName = c.Name
		} else {
			s.log.Debug("client lookup failed, using plan name", "plan_id", id, "error", err)
		}
	}
	if tools, err := s.store.ToolNames(ctx); err == nil {
		req.Tools = tools
	} else {
		s.log.Warn("tool lookup failed, using plan names", "plan_id", id, "error", err)
	}
	return req, nil
}

// writeRenderError reports input problems precisely and hides renderer
// internals behind a generic message.
func (s *Server) writeRenderError(w http.ResponseWriter, id uuid.UUID, err error) {
	switch {
	case errors.Is(err, plan.ErrInvalidPlan), errors.Is(err, render.ErrInvalidInput):
		s.writeError(w, err)
	case errors.Is(err, render.ErrTimeout):
		s.log.Error("document timed out", "plan_id", id, "error", err)
		writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "document generation timed out"})
	default:
		s.log.Error("document failed", "plan_id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "could not generate document"})
	}
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}
	req, err := s.renderRequest(r, id)
	if err != nil {
		s.writeError(w, err)
		return
	}

	key := doccache.Key{
		PlanID:     id.String(),
		UpdatedAt:  req.Plan.UpdatedAt,
		Style:      string(req.Style),
		Weeks:      req.Weeks,
		ClientName: req.ClientName,
		Tools:      req.Tools,
	}
	if s.cache != nil {
		e, hit, err := s.cache.Get(key)
		if err != nil {
			s.log.Warn("cache read failed", "plan_id", id, "error", err)
		} else if hit {
			writeDocument(w, e.Filename, e.ContentType, e.Data)
			return
		}
	}

	res, err := s.renderer.Render(r.Context(), req)
	if err != nil {
		s.writeRenderError(w, id, err)
		return
	}
	s.log.Info("document rendered", "plan_id", id, "style", req.Style, "pages", res.Summary.PageCount, "bytes", len(res.Data))

	switch {
	case res.Degraded:
		s.log.Debug("degraded document not cached", "plan_id", id)
	case s.cache != nil:
		err := s.cache.Put(key, doccache.Entry{
			Filename:    res.Filename,
			ContentType: res.ContentType,
			Pages:       res.Summary.PageCount,
			Data:        res.Data,
			CreatedAt:   s.now(),
		})
		if err != nil {
			s.log.Warn("cache write failed", "plan_id", id, "error", err)
		}
	}
	writeDocument(w, res.Filename, res.ContentType, res.Data)
}

func writeDocument(w http.ResponseWriter, filename, contentType string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handlePages reports pagination without drawing the document.
func (s *Server) handlePages(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}
	req, err := s.renderRequest(r, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	doc, err := s.renderer.Layout(r.Context(), req)
	if err != nil {
		s.writeRenderError(w, id, err)
		return
	}
	writeJSON(w, http.StatusOK, doc.Summary())
}

// --- Client portal ---

// portalAllowed reports whether the request may read clientID's plans. The
// coach's API key opens every portal. Otherwise the tailnet login must match
// the client's email, so plain HTTP mode has no client access at all.
func (s *Server) portalAllowed(r *http.Request, clientID string) bool {
	if keyMatches(r.Header.Get("X-API-Key"), s.apiKey) {
		return true
	}
	if s.whois == nil || clientID == "" {
		return false
	}
	c, err := s.store.GetClient(r.Context(), clientID)
	if err != nil {
		return false
	}
	return c.Email != "" && strings.EqualFold(c.Email, userInfoFromContext(r).Login)
}

func (s *Server) denyPortal(w http.ResponseWriter, r *http.Request, clientID string) {
	s.log.Warn("portal access denied", "client_id", clientID, "user", userInfoFromContext(r).Login)
	writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied"})
}

func (s *Server) handlePortalPlans(w http.ResponseWriter, r *http.Request) {
	clientID := chi.URLParam(r, "clientID")
	if !s.portalAllowed(r, clientID) {
		s.denyPortal(w, r, clientID)
		return
	}
	plans, err := s.store.ListPlans(r.Context(), clientID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plans)
}

// handlePortalWeek returns the plan resolved for a single week.
func (s *Server) handlePortalWeek(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid week"})
		return
	}
	req, err := s.renderRequest(r, id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !s.portalAllowed(r, req.Plan.Client.ID) {
		s.denyPortal(w, r, req.Plan.Client.ID)
		return
	}
	if err := plan.Validate(req.Plan); err != nil {
		s.writeError(w, err)
		return
	}
	rp, err := render.Resolve(req.Plan, render.Input{ClientName: req.ClientName, Tools: req.Tools, Weeks: []int{week}})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rp)
}

// handlePortalDocument serves the same document as the coach endpoint to the
// plan's own client.
func (s *Server) handlePortalDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := planID(w, r)
	if !ok {
		return
	}
	p, err := s.store.GetPlan(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if !s.portalAllowed(r, p.Client.ID) {
		s.denyPortal(w, r, p.Client.ID)
		return
	}
	s.handleDocument(w, r)
}
