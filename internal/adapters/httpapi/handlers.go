package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"hrcore/internal/generation"
	"hrcore/internal/memo"
	"hrcore/internal/roster"
	"hrcore/internal/service"
	"hrcore/pkg/domain"
)

type errorBody struct {
	Error string `json:"error"`
}

type orgChartBody struct {
	Granularity string             `json:"granularity"`
	Root        any                `json:"root"`
	Diagnostics domain.Diagnostics `json:"diagnostics"`
}

func (rt *Router) health(w http.ResponseWriter, _ *http.Request) {
	rt.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// orgChart handles GET /v1/orgchart?granularity=employee|role.
func (rt *Router) orgChart(w http.ResponseWriter, r *http.Request) {
	granularity := r.URL.Query().Get("granularity")
	body := orgChartBody{Granularity: granularity, Diagnostics: domain.Diagnostics{}}
	switch granularity {
	case "", "employee":
		body.Granularity = "employee"
		forest, err := rt.svc.OrgChart(r.Context())
		if err != nil {
			rt.rosterError(w, err)
			return
		}
		body.Root = forest.Root
		if forest.Diagnostics != nil {
			body.Diagnostics = forest.Diagnostics
		}
	case "role":
		forest, err := rt.svc.RoleChart(r.Context())
		if err != nil {
			rt.rosterError(w, err)
			return
		}
		body.Root = forest.Root
		if forest.Diagnostics != nil {
			body.Diagnostics = forest.Diagnostics
		}
	default:
		rt.respondError(w, http.StatusBadRequest, "granularity must be employee or role")
		return
	}
	rt.respondJSON(w, http.StatusOK, body)
}

// coverage handles GET /v1/coverage?kind=K (repeatable).
func (rt *Router) coverage(w http.ResponseWriter, r *http.Request) {
	var kinds []domain.Kind
	for _, k := range r.URL.Query()["kind"] {
		kinds = append(kinds, domain.Kind(k))
	}
	gaps, err := rt.svc.Coverage(r.Context(), kinds...)
	if err != nil {
		rt.rosterError(w, err)
		return
	}
	if gaps == nil {
		gaps = []memo.Gap{}
	}
	rt.respondJSON(w, http.StatusOK, map[string]any{"gaps": gaps})
}

// getMemo handles GET /v1/memos/{kind}/{subject}.
func (rt *Router) getMemo(w http.ResponseWriter, r *http.Request) {
	kind, subject := memoParams(r)
	entry, ok, err := rt.svc.Memo().LookupEntry(r.Context(), subject, kind)
	switch {
	case errors.Is(err, memo.ErrInvalidKey):
		rt.respondError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		rt.logger.Error("memo lookup failed", zap.String("subject", subject), zap.String("kind", string(kind)), zap.Error(err))
		rt.respondError(w, http.StatusServiceUnavailable, "memo store unavailable")
	case !ok:
		rt.respondError(w, http.StatusNotFound, "no entry")
	default:
		rt.respondJSON(w, http.StatusOK, entry)
	}
}

// putMemo handles PUT /v1/memos/{kind}/{subject}; the raw body is the content.
func (rt *Router) putMemo(w http.ResponseWriter, r *http.Request) {
	kind, subject := memoParams(r)
	content, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxMemoBody))
	if err != nil {
		rt.respondError(w, http.StatusBadRequest, "unreadable body")
		return
	}
	err = rt.svc.Memo().Upsert(r.Context(), subject, kind, string(content))
	switch {
	case errors.Is(err, memo.ErrInvalidKey):
		rt.respondError(w, http.StatusBadRequest, err.Error())
	case err != nil:
		rt.logger.Error("memo upsert failed", zap.String("subject", subject), zap.String("kind", string(kind)), zap.Error(err))
		rt.respondError(w, http.StatusServiceUnavailable, "memo store unavailable")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

// generate handles POST /v1/generate/{kind}/{employeeID}?force=true.
func (rt *Router) generate(w http.ResponseWriter, r *http.Request) {
	kind := domain.Kind(chi.URLParam(r, "kind"))
	employeeID := chi.URLParam(r, "employeeID")
	force, _ := strconv.ParseBool(r.URL.Query().Get("force"))

	res, err := rt.svc.Generate(r.Context(), kind, employeeID, generation.Options{Force: force})
	switch {
	case errors.Is(err, service.ErrGenerationDisabled):
		rt.respondError(w, http.StatusNotImplemented, err.Error())
	case errors.Is(err, service.ErrEmployeeNotFound):
		rt.respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, memo.ErrInvalidKey):
		rt.respondError(w, http.StatusBadRequest, err.Error())
	case err != nil && res.Content != "":
		// Generated but not stored: hand the content back anyway.
		rt.logger.Warn("generated content returned uncached", zap.Error(err))
		rt.respondJSON(w, http.StatusOK, res)
	case err != nil:
		rt.rosterError(w, err)
	default:
		rt.respondJSON(w, http.StatusOK, res)
	}
}

func (rt *Router) rosterError(w http.ResponseWriter, err error) {
	if errors.Is(err, roster.ErrMissingColumn) {
		rt.respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	rt.logger.Error("request failed", zap.Error(err))
	rt.respondError(w, http.StatusServiceUnavailable, "backing store unavailable")
}

func memoParams(r *http.Request) (domain.Kind, string) {
	return domain.Kind(strings.TrimSpace(chi.URLParam(r, "kind"))), chi.URLParam(r, "subject")
}

func (rt *Router) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		rt.logger.Warn("encode response", zap.Error(err))
	}
}

func (rt *Router) respondError(w http.ResponseWriter, status int, msg string) {
	rt.respondJSON(w, status, errorBody{Error: msg})
}
