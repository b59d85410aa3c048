// Package remotetest hosts an in-memory stand-in for the vehicle registry
// API so store and client tests can exercise real HTTP round trips. It
// speaks the same wire contract as the production service: trailing-slash
// resource paths, "token <t>" auth, 201 on create, denormalized
// segment_name/brand_name join output on vehicles.
package remotetest

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"

	"vehicleregistry/internal/domain"
)

type Server struct {
	mu       sync.Mutex
	users    map[string]string // username -> password
	tokens   map[string]string // token -> username
	segments []domain.Segment
	brands   []domain.Brand
	vehicles []domain.Vehicle
	nextID   int

	failNext int // HTTP status forced on the next request, 0 when unset
}

func New() *Server {
	return &Server{
		users:  map[string]string{},
		tokens: map[string]string{},
		nextID: 1,
	}
}

// Router returns the chi handler; mount it on an httptest.Server.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(s.failureInjector)

	r.Post("/api/auth/", s.handleLogin)
	r.Post("/api/create/", s.handleRegister)

	r.Group(func(api chi.Router) {
		api.Use(s.requireToken)
		api.Get("/api/profile/", s.handleProfile)

		api.Get("/api/segments/", s.handleListSegments)
		api.Post("/api/segments/", s.handleCreateSegment)
		api.Put("/api/segments/{id}/", s.handleUpdateSegment)
		api.Delete("/api/segments/{id}/", s.handleDeleteSegment)

		api.Get("/api/brands/", s.handleListBrands)
		api.Post("/api/brands/", s.handleCreateBrand)
		api.Put("/api/brands/{id}/", s.handleUpdateBrand)
		api.Delete("/api/brands/{id}/", s.handleDeleteBrand)

		api.Get("/api/vehicles/", s.handleListVehicles)
		api.Post("/api/vehicles/", s.handleCreateVehicle)
		api.Put("/api/vehicles/{id}/", s.handleUpdateVehicle)
		api.Delete("/api/vehicles/{id}/", s.handleDeleteVehicle)
	})

	return r
}

// FailNext forces the next request, whatever it is, to return status.
func (s *Server) FailNext(status int) {
	s.mu.Lock()
	s.failNext = status
	s.mu.Unlock()
}

// SeedUser registers an account without going through the API.
func (s *Server) SeedUser(username, password string) {
	s.mu.Lock()
	s.users[username] = password
	s.mu.Unlock()
}

// SeedToken installs a pre-issued token for username.
func (s *Server) SeedToken(token, username string) {
	s.mu.Lock()
	s.tokens[token] = username
	s.mu.Unlock()
}

func (s *Server) SeedSegments(items ...domain.Segment) {
	s.mu.Lock()
	s.segments = append(s.segments, items...)
	for _, it := range items {
		if it.ID >= s.nextID {
			s.nextID = it.ID + 1
		}
	}
	s.mu.Unlock()
}

func (s *Server) SeedBrands(items ...domain.Brand) {
	s.mu.Lock()
	s.brands = append(s.brands, items...)
	for _, it := range items {
		if it.ID >= s.nextID {
			s.nextID = it.ID + 1
		}
	}
	s.mu.Unlock()
}

func (s *Server) SeedVehicles(items ...domain.Vehicle) {
	s.mu.Lock()
	s.vehicles = append(s.vehicles, items...)
	for _, it := range items {
		if it.ID >= s.nextID {
			s.nextID = it.ID + 1
		}
	}
	s.mu.Unlock()
}

func (s *Server) failureInjector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status := s.failNext
		s.failNext = 0
		s.mu.Unlock()
		if status != 0 {
			writeJSON(w, status, map[string]any{"detail": "injected failure"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "token ") {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "authentication credentials were not provided"})
			return
		}
		s.mu.Lock()
		_, ok := s.tokens[strings.TrimPrefix(header, "token ")]
		s.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"detail": "invalid token"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid payload"})
		return
	}
	s.mu.Lock()
	password, ok := s.users[creds.Username]
	s.mu.Unlock()
	if !ok || password != creds.Password {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "unable to log in with provided credentials"})
		return
	}
	token := newToken()
	s.mu.Lock()
	s.tokens[token] = creds.Username
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid payload"})
		return
	}
	if creds.Username == "" || creds.Password == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "username and password are required"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[creds.Username]; exists {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "username already taken"})
		return
	}
	s.users[creds.Username] = creds.Password
	id := s.nextID
	s.nextID++
	writeJSON(w, http.StatusCreated, domain.Profile{ID: id, Username: creds.Username})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	username := s.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "token ")]
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, domain.Profile{ID: 1, Username: username})
}

func (s *Server) handleListSegments(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := append([]domain.Segment(nil), s.segments...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateSegment(w http.ResponseWriter, r *http.Request) {
	var in domain.Segment
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid payload"})
		return
	}
	s.mu.Lock()
	in.ID = s.nextID
	s.nextID++
	s.segments = append(s.segments, in)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) handleUpdateSegment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid id"})
		return
	}
	var in domain.Segment
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid payload"})
		return
	}
	in.ID = id
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, seg := range s.segments {
		if seg.ID == id {
			s.segments[i] = in
			s.refreshVehicleJoins()
			writeJSON(w, http.StatusOK, in)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "not found"})
}

func (s *Server) handleDeleteSegment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid id"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	segments := make([]domain.Segment, 0, len(s.segments))
	found := false
	for _, seg := range s.segments {
		if seg.ID == id {
			found = true
			continue
		}
		segments = append(segments, seg)
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "not found"})
		return
	}
	s.segments = segments
	// FK cascade, same as the production database.
	vehicles := make([]domain.Vehicle, 0, len(s.vehicles))
	for _, veh := range s.vehicles {
		if veh.Segment != id {
			vehicles = append(vehicles, veh)
		}
	}
	s.vehicles = vehicles
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListBrands(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := append([]domain.Brand(nil), s.brands...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateBrand(w http.ResponseWriter, r *http.Request) {
	var in domain.Brand
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid payload"})
		return
	}
	s.mu.Lock()
	in.ID = s.nextID
	s.nextID++
	s.brands = append(s.brands, in)
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) handleUpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid id"})
		return
	}
	var in domain.Brand
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid payload"})
		return
	}
	in.ID = id
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, b := range s.brands {
		if b.ID == id {
			s.brands[i] = in
			s.refreshVehicleJoins()
			writeJSON(w, http.StatusOK, in)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "not found"})
}

func (s *Server) handleDeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid id"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	brands := make([]domain.Brand, 0, len(s.brands))
	found := false
	for _, b := range s.brands {
		if b.ID == id {
			found = true
			continue
		}
		brands = append(brands, b)
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "not found"})
		return
	}
	s.brands = brands
	vehicles := make([]domain.Vehicle, 0, len(s.vehicles))
	for _, veh := range s.vehicles {
		if veh.Brand != id {
			vehicles = append(vehicles, veh)
		}
	}
	s.vehicles = vehicles
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListVehicles(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	items := append([]domain.Vehicle(nil), s.vehicles...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateVehicle(w http.ResponseWriter, r *http.Request) {
	var in domain.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid payload"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.segmentExists(in.Segment) || !s.brandExists(in.Brand) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid segment or brand reference"})
		return
	}
	in.ID = s.nextID
	s.nextID++
	in.SegmentName, in.BrandName = s.joinNames(in.Segment, in.Brand)
	s.vehicles = append(s.vehicles, in)
	writeJSON(w, http.StatusCreated, in)
}

func (s *Server) handleUpdateVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid id"})
		return
	}
	var in domain.Vehicle
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid payload"})
		return
	}
	in.ID = id
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.segmentExists(in.Segment) || !s.brandExists(in.Brand) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid segment or brand reference"})
		return
	}
	for i, veh := range s.vehicles {
		if veh.ID == id {
			in.SegmentName, in.BrandName = s.joinNames(in.Segment, in.Brand)
			s.vehicles[i] = in
			writeJSON(w, http.StatusOK, in)
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]any{"detail": "not found"})
}

func (s *Server) handleDeleteVehicle(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"detail": "invalid id"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	vehicles := make([]domain.Vehicle, 0, len(s.vehicles))
	found := false
	for _, veh := range s.vehicles {
		if veh.ID == id {
			found = true
			continue
		}
		vehicles = append(vehicles, veh)
	}
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]any{"detail": "not found"})
		return
	}
	s.vehicles = vehicles
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) segmentExists(id int) bool {
	for _, seg := range s.segments {
		if seg.ID == id {
			return true
		}
	}
	return false
}

func (s *Server) brandExists(id int) bool {
	for _, b := range s.brands {
		if b.ID == id {
			return true
		}
	}
	return false
}

func (s *Server) joinNames(segmentID, brandID int) (string, string) {
	var segmentName, brandName string
	for _, seg := range s.segments {
		if seg.ID == segmentID {
			segmentName = seg.SegmentName
		}
	}
	for _, b := range s.brands {
		if b.ID == brandID {
			brandName = b.BrandName
		}
	}
	return segmentName, brandName
}

func (s *Server) refreshVehicleJoins() {
	for i, veh := range s.vehicles {
		veh.SegmentName, veh.BrandName = s.joinNames(veh.Segment, veh.Brand)
		s.vehicles[i] = veh
	}
}

func pathID(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "id"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newToken() string {
	raw := make([]byte, 20)
	_, _ = rand.Read(raw)
	return hex.EncodeToString(raw)
}
