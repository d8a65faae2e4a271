// Package api exposes the repository reads as the public HTTP/JSON
// surface. It is a thin projection: every route maps to one repository
// fetch.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/untoldecay/Catnip/internal/storage"
	"github.com/untoldecay/Catnip/internal/types"
)

// Repository is the public source URL reported by the index route.
const Repository = "https://github.com/untoldecay/Catnip"

// Info is the body of GET /.
type Info struct {
	APIName      string `json:"api_name"`
	MajorVersion string `json:"major_version"`
	MinorVersion string `json:"minor_version"`
	Repository   string `json:"repository"`
}

type errorBody struct {
	Error       string `json:"error"`
	Description string `json:"description"`
}

// Server serves the read-only API over a storage handle.
type Server struct {
	store storage.Storage
	log   *slog.Logger
	info  Info
}

// NewServer builds the read API. major/minor are the configured API
// version strings.
func NewServer(store storage.Storage, log *slog.Logger, major, minor string) *Server {
	return &Server{
		store: store,
		log:   log,
		info: Info{
			APIName:      "catnip",
			MajorVersion: major,
			MinorVersion: minor,
			Repository:   Repository,
		},
	}
}

// Router builds the route table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/", s.handleIndex)
	r.Get("/affiliations", s.handleAffiliations)
	r.Get("/affiliations/{id}", s.handleAffiliationByID)
	r.Get("/livers", s.handleLivers)
	r.Get("/livers/filtered", s.handleLiversFiltered)
	r.Get("/channels", s.handleChannels)
	r.Get("/upcomings", s.handleUpcomings)
	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.info)
}

func (s *Server) handleAffiliations(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.Affiliations().FetchAll(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	if all == nil {
		all = []types.Affiliation{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleAffiliationByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{
			Error:       "invalid_request",
			Description: "affiliation id must be an integer",
		})
		return
	}
	aff, err := s.store.Affiliations().FetchByID(r.Context(), types.AffiliationID(id))
	if err != nil {
		s.internalError(w, err)
		return
	}
	if aff == nil {
		writeJSON(w, http.StatusNotFound, errorBody{
			Error:       "not_found",
			Description: "No content was found to response this request.",
		})
		return
	}
	writeJSON(w, http.StatusOK, aff)
}

func (s *Server) handleLivers(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.Livers().FetchAll(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	if all == nil {
		all = []types.Liver{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleLiversFiltered(w http.ResponseWriter, r *http.Request) {
	// An absent parameter filters on affiliation 0, which matches
	// nothing; an unknown affiliation yields an empty list.
	var id int64
	if raw := r.URL.Query().Get("affiliated"); raw != "" {
		var err error
		id, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{
				Error:       "invalid_request",
				Description: "affiliated must be an integer",
			})
			return
		}
	}
	livers, err := s.store.Livers().FetchByAffiliation(r.Context(), types.AffiliationID(id))
	if err != nil {
		s.internalError(w, err)
		return
	}
	if livers == nil {
		livers = []types.Liver{}
	}
	writeJSON(w, http.StatusOK, livers)
}

func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.Channels().FetchAll(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	if all == nil {
		all = []types.Channel{}
	}
	writeJSON(w, http.StatusOK, all)
}

func (s *Server) handleUpcomings(w http.ResponseWriter, r *http.Request) {
	upcoming, err := s.store.Videos().FetchUpcoming(r.Context())
	if err != nil {
		s.internalError(w, err)
		return
	}
	if upcoming == nil {
		upcoming = []types.Video{}
	}
	writeJSON(w, http.StatusOK, upcoming)
}

func (s *Server) internalError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody{
			Error:       "not_found",
			Description: "No content was found to response this request.",
		})
		return
	}
	s.log.Error("repository read failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, errorBody{
		Error:       "database_error",
		Description: err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
