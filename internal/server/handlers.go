package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/gedtree/gedtree/pkg/buildinfo"
	"github.com/gedtree/gedtree/pkg/cache"
	"github.com/gedtree/gedtree/pkg/errors"
	"github.com/gedtree/gedtree/pkg/gedcom"
	"github.com/gedtree/gedtree/pkg/gtr"
	"github.com/gedtree/gedtree/pkg/render"
	"github.com/gedtree/gedtree/pkg/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, s.maxUpload+1))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "reading request body"))
		return
	}
	if int64(len(data)) > s.maxUpload {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "document exceeds upload limit of %d bytes", s.maxUpload))
		return
	}
	if len(data) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "empty document"))
		return
	}

	// Parse up front so a broken document is rejected at upload time.
	doc, err := gedcom.Parse(bytes.NewReader(data))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeParse, err, "parsing document"))
		return
	}
	graph, err := gtr.Build(doc)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeParse, err, "building family graph"))
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "upload.ged"
	}

	ds := &store.Dataset{
		ID:        uuid.NewString(),
		Name:      name,
		Data:      data,
		Hash:      cache.Hash(data),
		Persons:   graph.PersonCount(),
		Families:  graph.FamilyCount(),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Put(r.Context(), ds); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "storing dataset"))
		return
	}

	ds.Data = nil
	writeJSON(w, http.StatusCreated, ds)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.store.List(r.Context())
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "listing datasets"))
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	ds, err := s.dataset(w, r)
	if err != nil {
		return
	}
	ds.Data = nil
	writeJSON(w, http.StatusOK, ds)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	err := s.store.Delete(r.Context(), id)
	if err == store.ErrNotFound {
		s.writeError(w, errors.New(errors.ErrCodeDatasetNotFound, "no dataset with id %s", id))
		return
	}
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "deleting dataset"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// personInfo is the persons listing element.
type personInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (s *Server) handlePersons(w http.ResponseWriter, r *http.Request) {
	graph, _, err := s.graph(w, r)
	if err != nil {
		return
	}

	persons := make([]personInfo, 0, graph.PersonCount())
	for _, p := range graph.Persons() {
		persons = append(persons, personInfo{ID: p.ID, Name: p.Name})
	}
	writeJSON(w, http.StatusOK, persons)
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	graph, ds, err := s.graph(w, r)
	if err != nil {
		return
	}
	s.renderResponse(w, r, graph, ds.Hash)
}

// handleRender renders a tree from a GEDCOM document in the request body
// without storing it as a dataset.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(io.LimitReader(r.Body, s.maxUpload+1))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInternal, err, "reading request body"))
		return
	}
	if int64(len(data)) > s.maxUpload {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "document exceeds upload limit of %d bytes", s.maxUpload))
		return
	}
	if len(data) == 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "empty document"))
		return
	}

	doc, err := gedcom.Parse(bytes.NewReader(data))
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeParse, err, "parsing document"))
		return
	}
	graph, err := gtr.Build(doc)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeParse, err, "building family graph"))
		return
	}
	s.renderResponse(w, r, graph, cache.Hash(data))
}

// renderResponse resolves the focal person and render options from the
// query string and writes the rendered artifact, consulting the cache
// keyed by document hash and options.
func (s *Server) renderResponse(w http.ResponseWriter, r *http.Request, graph *gtr.Graph, contentHash string) {
	personID := r.URL.Query().Get("person")
	if err := errors.ValidateXref(personID); err != nil {
		s.writeError(w, err)
		return
	}
	// Ids are accepted with or without @ delimiters; the graph and the
	// cache key use the bare form so both spellings share entries.
	personID = strings.Trim(personID, "@")
	person, ok := graph.Person(personID)
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodePersonNotFound, "no person with id %s", personID))
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "gtr"
	}

	opts, err := treeOptions(r)
	if err != nil {
		s.writeError(w, err)
		return
	}
	opts.Logger = s.logger

	key := cache.RenderKey(contentHash, cache.RenderKeyOpts{
		Person:                   personID,
		Format:                   format,
		Siblings:                 opts.Siblings,
		AncestorSiblings:         opts.AncestorSiblings,
		MaxAncestorGenerations:   opts.MaxAncestorGenerations,
		MaxDescendantGenerations: opts.MaxDescendantGenerations,
		DynamicLimits:            opts.DynamicLimits,
	})
	if data, found, err := s.cache.Get(r.Context(), key); err == nil && found {
		writeArtifact(w, format, data)
		return
	}

	data, err := renderTree(person, format, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.cache.Set(r.Context(), key, data, s.cacheTTL); err != nil && s.logger != nil {
		s.logger.Warnf("Failed to cache artifact: %v", err)
	}
	writeArtifact(w, format, data)
}

// renderTree produces the artifact bytes for one format.
func renderTree(person *gtr.Person, format string, opts gtr.Options) ([]byte, error) {
	switch format {
	case "gtr":
		out, err := gtr.Sandclock(person, opts)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "serializing tree")
		}
		return []byte(out), nil
	case "dot":
		return []byte(render.ToDOT(person, opts)), nil
	case "svg":
		data, err := render.RenderSVG(render.ToDOT(person, opts))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "rendering svg")
		}
		return data, nil
	case "png":
		data, err := render.RenderPNG(render.ToDOT(person, opts))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "rendering png")
		}
		return data, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (want gtr, dot, svg or png)", format)
	}
}

// treeOptions reads the render options from the query string. Booleans
// default to true for sibling flags, limits default to unlimited.
func treeOptions(r *http.Request) (gtr.Options, error) {
	opts := gtr.DefaultOptions()
	q := r.URL.Query()

	var err error
	if opts.Siblings, err = boolParam(q.Get("siblings"), true); err != nil {
		return opts, errors.New(errors.ErrCodeInvalidInput, "invalid siblings parameter")
	}
	if opts.AncestorSiblings, err = boolParam(q.Get("ancestor_siblings"), true); err != nil {
		return opts, errors.New(errors.ErrCodeInvalidInput, "invalid ancestor_siblings parameter")
	}
	if opts.DynamicLimits, err = boolParam(q.Get("dynamic_limits"), false); err != nil {
		return opts, errors.New(errors.ErrCodeInvalidInput, "invalid dynamic_limits parameter")
	}

	for _, limit := range []struct {
		name string
		dst  *int
	}{
		{"max_ancestor_generations", &opts.MaxAncestorGenerations},
		{"max_descendant_generations", &opts.MaxDescendantGenerations},
	} {
		raw := q.Get(limit.name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidLimit, "%s must be an integer", limit.name)
		}
		if err := errors.ValidateGenerationLimit(limit.name, v); err != nil {
			return opts, err
		}
		*limit.dst = v
	}

	return opts, nil
}

func boolParam(raw string, def bool) (bool, error) {
	if raw == "" {
		return def, nil
	}
	return strconv.ParseBool(raw)
}

// graph loads a dataset by the id route parameter and builds its family
// graph. On failure it writes the error response and returns a non-nil
// error so handlers can simply return.
func (s *Server) graph(w http.ResponseWriter, r *http.Request) (*gtr.Graph, *store.Dataset, error) {
	ds, err := s.dataset(w, r)
	if err != nil {
		return nil, nil, err
	}

	doc, err := gedcom.Parse(bytes.NewReader(ds.Data))
	if err != nil {
		werr := errors.Wrap(errors.ErrCodeParse, err, "parsing dataset %s", ds.ID)
		s.writeError(w, werr)
		return nil, nil, werr
	}
	graph, err := gtr.Build(doc)
	if err != nil {
		werr := errors.Wrap(errors.ErrCodeParse, err, "building family graph for dataset %s", ds.ID)
		s.writeError(w, werr)
		return nil, nil, werr
	}
	return graph, ds, nil
}

// dataset loads a dataset by the id route parameter, writing the error
// response on failure.
func (s *Server) dataset(w http.ResponseWriter, r *http.Request) (*store.Dataset, error) {
	id := chi.URLParam(r, "id")
	ds, err := s.store.Get(r.Context(), id)
	if err == store.ErrNotFound {
		werr := errors.New(errors.ErrCodeDatasetNotFound, "no dataset with id %s", id)
		s.writeError(w, werr)
		return nil, werr
	}
	if err != nil {
		werr := errors.Wrap(errors.ErrCodeStorage, err, "loading dataset")
		s.writeError(w, werr)
		return nil, werr
	}
	return ds, nil
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps an error code to an HTTP status and writes the JSON
// error envelope.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidLimit,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidXref,
		errors.ErrCodeParse:
		status = http.StatusBadRequest
	case errors.ErrCodePersonNotFound, errors.ErrCodeDatasetNotFound,
		errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	}

	if s.logger != nil && status >= http.StatusInternalServerError {
		s.logger.Errorf("Request failed: %v", err)
	}

	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeArtifact writes a rendered artifact with its content type.
func writeArtifact(w http.ResponseWriter, format string, data []byte) {
	contentType := map[string]string{
		"gtr": "text/plain; charset=utf-8",
		"dot": "text/vnd.graphviz; charset=utf-8",
		"svg": "image/svg+xml",
		"png": "image/png",
	}[format]
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
