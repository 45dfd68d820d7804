// Package backendtest runs an in-memory stand-in for the property API so
// the site can be exercised end to end without the real backend.
package backendtest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nfrund/propertyhub/internal/domain"
)

// Credentials accepted by the fake login.
const (
	Email    = "admin@example.com"
	Password = "correct-horse"
	Token    = "backendtest-token"
)

// Server is a fake backend. Collections are keyed by resource path such as
// "properties" and hold raw JSON objects by id.
type Server struct {
	*httptest.Server

	mu            sync.Mutex
	collections   map[string]map[string]map[string]any
	home          map[string]domain.HomeSection
	inquiries     []domain.Inquiry
	notifications []domain.Notification
	favorites     map[string][]domain.Favorite
	failing       map[string]bool
	seq           int
}

var resources = []string{"properties", "projects", "agents", "builders"}

// New starts a fake backend. Close it when done.
func New() *Server {
	s := &Server{
		collections: make(map[string]map[string]map[string]any),
		home:        make(map[string]domain.HomeSection),
		favorites:   make(map[string][]domain.Favorite),
		failing:     make(map[string]bool),
	}
	for _, r := range resources {
		s.collections[r] = make(map[string]map[string]any)
	}

	e := echo.New()
	e.HideBanner = true
	e.POST("/auth/login", s.login)
	e.POST("/inquiries", s.createInquiry)
	e.GET("/inquiries", s.listInquiries, s.auth)
	e.GET("/notifications", s.listNotifications, s.auth)
	e.GET("/favorites", s.listFavorites)
	e.POST("/favorites", s.addFavorite)
	e.DELETE("/favorites/:type/:id", s.removeFavorite)
	e.GET("/home-content", s.listHome)
	e.PUT("/home-content/:section", s.updateHome, s.auth)
	e.GET("/:resource", s.list)
	e.GET("/:resource/:id", s.get)
	e.POST("/:resource", s.create, s.auth)
	e.PUT("/:resource/:id", s.update, s.auth)
	e.DELETE("/:resource/:id", s.remove, s.auth)

	s.Server = httptest.NewServer(e)
	return s
}

// Seed stores item under resource. item is marshalled to JSON and must
// carry an "id".
func (s *Server) Seed(resource string, item any) {
	obj := toObject(item)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collections[resource][fmt.Sprint(obj["id"])] = obj
}

// SeedHome stores a home content section.
func (s *Server) SeedHome(section domain.HomeSection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.home[section.Section] = section
}

// SeedNotification adds an admin notification.
func (s *Server) SeedNotification(n domain.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, n)
}

// Fail makes every request under resource answer 503 until called again
// with false.
func (s *Server) Fail(resource string, fail bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[resource] = fail
}

// Count returns the number of items stored under resource.
func (s *Server) Count(resource string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.collections[resource])
}

// Inquiries returns the inquiries received so far.
func (s *Server) Inquiries() []domain.Inquiry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Inquiry(nil), s.inquiries...)
}

func toObject(item any) map[string]any {
	data, err := json.Marshal(item)
	if err != nil {
		panic(err)
	}
	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err != nil {
		panic(err)
	}
	return obj
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"message": msg})
}

func (s *Server) auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Header.Get("Authorization") != "Bearer "+Token {
			return fail(c, http.StatusUnauthorized, "missing or invalid token")
		}
		return next(c)
	}
}

func (s *Server) nextID() string {
	s.seq++
	return fmt.Sprintf("gen-%d", s.seq)
}

func (s *Server) login(c echo.Context) error {
	var creds domain.Credentials
	if err := c.Bind(&creds); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if creds.Email != Email || creds.Password != Password {
		return fail(c, http.StatusUnauthorized, "invalid credentials")
	}
	return c.JSON(http.StatusOK, map[string]string{"token": Token})
}

// collection resolves :resource, answering 404 or 503 itself when the
// second result is false.
func (s *Server) collection(c echo.Context) (map[string]map[string]any, bool, error) {
	name := c.Param("resource")
	items, ok := s.collections[name]
	if !ok {
		return nil, false, fail(c, http.StatusNotFound, "no such resource")
	}
	if s.failing[name] {
		return nil, false, fail(c, http.StatusServiceUnavailable, name+" unavailable")
	}
	return items, true, nil
}

func (s *Server) list(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok, err := s.collection(c)
	if !ok {
		return err
	}
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]map[string]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, items[id])
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) get(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok, err := s.collection(c)
	if !ok {
		return err
	}
	item, found := items[c.Param("id")]
	if !found {
		return fail(c, http.StatusNotFound, "not found")
	}
	return c.JSON(http.StatusOK, item)
}

func (s *Server) create(c echo.Context) error {
	var obj map[string]any
	if err := json.NewDecoder(c.Request().Body).Decode(&obj); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok, err := s.collection(c)
	if !ok {
		return err
	}
	id, _ := obj["id"].(string)
	if id == "" {
		id = s.nextID()
		obj["id"] = id
	}
	items[id] = obj
	return c.JSON(http.StatusCreated, obj)
}

func (s *Server) update(c echo.Context) error {
	var obj map[string]any
	if err := json.NewDecoder(c.Request().Body).Decode(&obj); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok, err := s.collection(c)
	if !ok {
		return err
	}
	id := c.Param("id")
	if _, found := items[id]; !found {
		return fail(c, http.StatusNotFound, "not found")
	}
	obj["id"] = id
	items[id] = obj
	return c.JSON(http.StatusOK, obj)
}

func (s *Server) remove(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, ok, err := s.collection(c)
	if !ok {
		return err
	}
	id := c.Param("id")
	if _, found := items[id]; !found {
		return fail(c, http.StatusNotFound, "not found")
	}
	delete(items, id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) createInquiry(c echo.Context) error {
	var in domain.Inquiry
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	in.ID = s.nextID()
	in.CreatedAt = time.Now().UTC()
	s.inquiries = append(s.inquiries, in)
	return c.JSON(http.StatusCreated, in)
}

func (s *Server) listInquiries(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Inquiries())
}

func (s *Server) listNotifications(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, append([]domain.Notification{}, s.notifications...))
}

func (s *Server) listFavorites(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, append([]domain.Favorite{}, s.favorites[c.QueryParam("visitor")]...))
}

func (s *Server) addFavorite(c echo.Context) error {
	var fav domain.Favorite
	if err := c.Bind(&fav); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	visitor := c.QueryParam("visitor")
	if strings.TrimSpace(visitor) == "" {
		return fail(c, http.StatusBadRequest, "visitor required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.favorites[visitor] {
		if f == fav {
			return c.NoContent(http.StatusNoContent)
		}
	}
	s.favorites[visitor] = append(s.favorites[visitor], fav)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) removeFavorite(c echo.Context) error {
	visitor := c.QueryParam("visitor")
	target := domain.Favorite{EntityType: c.Param("type"), EntityID: c.Param("id")}
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.favorites[visitor][:0]
	for _, f := range s.favorites[visitor] {
		if f != target {
			kept = append(kept, f)
		}
	}
	s.favorites[visitor] = kept
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listHome(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.home))
	for name := range s.home {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]domain.HomeSection, 0, len(names))
	for _, name := range names {
		out = append(out, s.home[name])
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) updateHome(c echo.Context) error {
	var section domain.HomeSection
	if err := c.Bind(&section); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	section.Section = c.Param("section")
	section.UpdatedAt = time.Now().UTC()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.home[section.Section] = section
	return c.JSON(http.StatusOK, section)
}
