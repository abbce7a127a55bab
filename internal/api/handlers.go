package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/baleframe/baleframe/pkg/construct"
	"github.com/baleframe/baleframe/pkg/model"
	"github.com/baleframe/baleframe/pkg/partlist"
	"github.com/baleframe/baleframe/pkg/project"
	"github.com/baleframe/baleframe/pkg/store"
)

// maxProjectBytes caps posted project files. Real files are a few KB;
// anything near the cap is not a project.
const maxProjectBytes = 4 << 20

type synthesizeResponse struct {
	Model    *model.Model    `json:"model"`
	Stats    construct.Stats `json:"stats"`
	Errors   []string        `json:"errors"`
	Warnings []string        `json:"warnings"`
}

type partListResponse struct {
	Report      partlist.Report `json:"report"`
	TotalWeight float64         `json:"total_weight"`
	TotalVolume float64         `json:"total_volume"`
	Warnings    []string        `json:"warnings"`
}

type projectSummary struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	SavedAt time.Time `json:"saved_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// decodeProject reads a project file from the request body, TOML by
// default and JSON when the Content-Type says so.
func decodeProject(w http.ResponseWriter, r *http.Request) (*project.File, error) {
	body := http.MaxBytesReader(w, r.Body, maxProjectBytes)
	if strings.Contains(r.Header.Get("Content-Type"), "json") {
		return project.DecodeJSON(body)
	}
	return project.Decode(body)
}

func (s *Server) handleSynthesize(w http.ResponseWriter, r *http.Request) {
	f, err := decodeProject(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	in, hash, err := f.ToInput()
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := s.builder.Execute(r.Context(), construct.Options{
		Input:   in,
		Hash:    hash,
		Refresh: r.URL.Query().Get("refresh") == "true",
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, synthesizeResponse{
		Model:    res.Model,
		Stats:    res.Stats,
		Errors:   issueMessages(res.Model.Errors),
		Warnings: issueMessages(res.Model.Warnings),
	})
}

func (s *Server) handlePartList(w http.ResponseWriter, r *http.Request) {
	f, err := decodeProject(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	in, hash, err := f.ToInput()
	if err != nil {
		writeError(w, err)
		return
	}
	m, err := s.builder.Build(r.Context(), construct.Options{Input: in, Hash: hash})
	if err != nil {
		writeError(w, err)
		return
	}
	report := partlist.Aggregate(m, in.Materials)
	writeJSON(w, http.StatusOK, partListResponse{
		Report:      report,
		TotalWeight: report.TotalWeight(),
		TotalVolume: report.TotalVolume(),
		Warnings:    issueMessages(partlist.CheckStock(m, in.Materials)),
	})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	recs, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	out := make([]projectSummary, len(recs))
	for i, rec := range recs {
		out[i] = projectSummary{ID: rec.ID, Name: rec.Name, SavedAt: rec.SavedAt}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	f, err := decodeProject(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec := store.NewRecord(*f)
	if err := s.store.Put(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

func (s *Server) handlePutProject(w http.ResponseWriter, r *http.Request) {
	f, err := decodeProject(w, r)
	if err != nil {
		writeError(w, err)
		return
	}
	rec := store.Record{
		ID:      chi.URLParam(r, "id"),
		Name:    f.Project.Name,
		SavedAt: time.Now().UTC(),
		File:    *f,
	}
	if err := s.store.Put(r.Context(), rec); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// issueMessages flattens issues to their messages. Always non-nil so
// the JSON field encodes as an array.
func issueMessages(issues []model.Issue) []string {
	out := make([]string, len(issues))
	for i, iss := range issues {
		out[i] = iss.Message
	}
	return out
}
