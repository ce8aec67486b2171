// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the recommendation service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hanguk-labs/local-guide/internal/guide"
	"github.com/hanguk-labs/local-guide/internal/knowledge"
	"github.com/hanguk-labs/local-guide/internal/profile"
	"github.com/hanguk-labs/local-guide/pkg/types"
)

// Recommender is the orchestration surface the server needs.
type Recommender interface {
	Recommend(ctx context.Context, query string, p *types.Personalization, loc *types.LatLng) types.Result
	Status() types.SystemStatus
}

// ProfileStore is the profile surface the server needs.
type ProfileStore interface {
	PersonalizationFor(ctx context.Context, userID string) (*types.Personalization, error)
	UpdatePreferences(ctx context.Context, userID string, p *types.Personalization) error
	RecordVisit(ctx context.Context, userID string, v profile.Visit) error
	AddFavorite(ctx context.Context, userID, placeName string, category types.Category) error
}

// AmenityFinder locates everyday places around a point.
type AmenityFinder interface {
	Amenities(ctx context.Context, loc types.LatLng, perKind int) (map[string][]types.Recommendation, error)
}

// Server holds the HTTP handlers and their collaborators.
type Server struct {
	guide     Recommender
	profiles  ProfileStore
	amenities AmenityFinder
	log       zerolog.Logger
}

// New builds the server. profiles and amenities may be nil; their routes
// then answer 503.
func New(g Recommender, profiles ProfileStore, amenities AmenityFinder, log zerolog.Logger) *Server {
	return &Server{
		guide:     g,
		profiles:  profiles,
		amenities: amenities,
		log:       log.With().Str("component", "server").Logger(),
	}
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/recommendations", s.handleRecommend)
		r.Get("/status", s.handleStatus)
		r.Get("/amenities", s.handleAmenities)

		r.Get("/neighborhoods", s.handleNeighborhoods)
		r.Get("/neighborhoods/{name}", s.handleNeighborhood)

		r.Route("/profiles/{userID}", func(r chi.Router) {
			r.Get("/", s.handleGetProfile)
			r.Put("/preferences", s.handleUpdatePreferences)
			r.Post("/visits", s.handleRecordVisit)
			r.Post("/favorites", s.handleAddFavorite)
		})
	})

	return r
}

// requestLogger tags every request with an id and logs its outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()
		w.Header().Set("X-Request-Id", requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request served")
	})
}

// recommendRequest is the body of POST /v1/recommendations.
type recommendRequest struct {
	Query    string        `json:"query"`
	UserID   string        `json:"user_id,omitempty"`
	Location *types.LatLng `json:"location,omitempty"`
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		s.writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	var p *types.Personalization
	if req.UserID != "" && s.profiles != nil {
		loaded, err := s.profiles.PersonalizationFor(r.Context(), req.UserID)
		if err != nil {
			// Profile trouble never blocks a recommendation.
			s.log.Warn().Err(err).Str("user_id", req.UserID).Msg("profile load failed")
		} else {
			p = loaded
		}
	}

	result := s.guide.Recommend(r.Context(), req.Query, p, req.Location)
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.guide.Status())
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAmenities(w http.ResponseWriter, r *http.Request) {
	if s.amenities == nil {
		s.writeError(w, http.StatusServiceUnavailable, "amenity lookup not configured")
		return
	}

	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if errLat != nil || errLng != nil {
		s.writeError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}
	perKind := 3
	if n, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && n > 0 {
		perKind = n
	}

	groups, err := s.amenities.Amenities(r.Context(), types.LatLng{Lat: lat, Lng: lng}, perKind)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, groups)
}

func (s *Server) handleNeighborhoods(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, knowledge.Names())
}

func (s *Server) handleNeighborhood(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	insights, ok := knowledge.Insights(name)
	if !ok {
		s.writeError(w, http.StatusNotFound, "unknown neighborhood")
		return
	}
	s.writeJSON(w, http.StatusOK, insights)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		s.writeError(w, http.StatusServiceUnavailable, "profiles not configured")
		return
	}
	p, err := s.profiles.PersonalizationFor(r.Context(), chi.URLParam(r, "userID"))
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "loading profile failed")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		s.writeError(w, http.StatusServiceUnavailable, "profiles not configured")
		return
	}
	var p types.Personalization
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.profiles.UpdatePreferences(r.Context(), chi.URLParam(r, "userID"), &p); err != nil {
		s.writeError(w, http.StatusInternalServerError, "saving preferences failed")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// visitRequest is the body of POST /v1/profiles/{userID}/visits.
type visitRequest struct {
	PlaceName    string `json:"place_name"`
	Neighborhood string `json:"neighborhood,omitempty"`
	Category     string `json:"category,omitempty"`
	Rating       int    `json:"rating"`
}

func (s *Server) handleRecordVisit(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		s.writeError(w, http.StatusServiceUnavailable, "profiles not configured")
		return
	}
	var req visitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	err := s.profiles.RecordVisit(r.Context(), chi.URLParam(r, "userID"), profile.Visit{
		PlaceName:    req.PlaceName,
		Neighborhood: req.Neighborhood,
		Category:     types.Category(req.Category),
		Rating:       req.Rating,
	})
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "recorded"})
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	if s.profiles == nil {
		s.writeError(w, http.StatusServiceUnavailable, "profiles not configured")
		return
	}
	var req struct {
		PlaceName string `json:"place_name"`
		Category  string `json:"category,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.profiles.AddFavorite(r.Context(), chi.URLParam(r, "userID"), req.PlaceName, types.Category(req.Category)); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]string{"status": "favorited"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encoding response failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

var _ Recommender = (*guide.Guide)(nil)
var _ ProfileStore = (*profile.Store)(nil)
