// Package web serves a small JSON status API.
package web

import (
	"context"
	"net/http"
	"runtime"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/diamondburned/arikawa/v3/discord"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/easysystem/assistant/common"
	"github.com/easysystem/assistant/common/log"
	"github.com/easysystem/assistant/links"
	"github.com/easysystem/assistant/messaging"
)

// LinkLister is implemented by *links.Registry.
type LinkLister interface {
	List(ctx context.Context, guildID discord.GuildID) ([]links.Record, error)
}

type Server struct {
	links   LinkLister
	token   string
	started time.Time
}

// New creates a server. Guild routes require token as a bearer token, and are disabled if it is empty.
func New(l LinkLister, token string, started time.Time) *Server {
	return &Server{links: l, token: token, started: started}
}

func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/health", s.health)

	r.Route("/guilds/{guildID}", func(r chi.Router) {
		r.Use(s.requireToken)
		r.Get("/links", s.guildLinks)
	})

	return r
}

// Run serves on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(sctx); err != nil {
			log.Errorf("Error shutting down web server: %v", err)
		}
	}()

	log.Infof("Web server listening on %v", addr)
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return errors.Wrap(err, "serving")
}

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func renderError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	render.Status(r, code)
	render.JSON(w, r, errorResponse{Code: code, Message: msg})
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.token == "" {
			renderError(w, r, http.StatusForbidden, "Guild routes are disabled")
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token != s.token {
			renderError(w, r, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r)
	})
}

type healthResponse struct {
	Version       string  `json:"version"`
	Uptime        float64 `json:"uptime_seconds"`
	Goroutines    int     `json:"goroutines"`
	HeapAlloc     uint64  `json:"heap_alloc"`
	SystemUsed    uint64  `json:"system_used,omitempty"`
	SystemTotal   uint64  `json:"system_total,omitempty"`
	SystemPercent float64 `json:"system_percent,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	resp := healthResponse{
		Version:    common.Version(),
		Uptime:     time.Since(s.started).Seconds(),
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
	}

	vm, err := mem.VirtualMemoryWithContext(r.Context())
	if err != nil {
		log.Debugf("Error getting system memory: %v", err)
	} else {
		resp.SystemUsed = vm.Used
		resp.SystemTotal = vm.Total
		resp.SystemPercent = vm.UsedPercent
	}

	render.JSON(w, r, resp)
}

type linkResponse struct {
	Name    string          `json:"name"`
	Target  messaging.Ref   `json:"target"`
	Origins []messaging.Ref `json:"origins"`
}

func (s *Server) guildLinks(w http.ResponseWriter, r *http.Request) {
	sf, err := discord.ParseSnowflake(chi.URLParam(r, "guildID"))
	if err != nil {
		renderError(w, r, http.StatusBadRequest, "Invalid guild ID")
		return
	}

	recs, err := s.links.List(r.Context(), discord.GuildID(sf))
	if err != nil {
		log.Errorf("Error listing message links for %v: %v", sf, err)
		renderError(w, r, http.StatusInternalServerError, "Error listing message links")
		return
	}

	resp := make([]linkResponse, 0, len(recs))
	for _, rec := range recs {
		resp = append(resp, linkResponse{
			Name:    rec.Name,
			Target:  rec.Target(),
			Origins: rec.Origins,
		})
	}
	render.JSON(w, r, resp)
}
