package server

import (
	"strings"
	"time"

	"github.com/danmuck/usbctl/internal/auth"
	"github.com/danmuck/usbctl/internal/config"
	"github.com/danmuck/usbctl/internal/observability"
	"github.com/danmuck/usbctl/internal/usbmode"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Server owns the control-API router and the USB mode store behind it.
type Server struct {
	Name     string    `json:"name"`
	Addr     string    `json:"addr"`
	Appeared time.Time `json:"appeared"`

	store     *usbmode.Store
	validator auth.Validator
	router    *gin.Engine
}

// Appear builds a fully-middlewared server from config.
func Appear(cfg config.Config) *Server {
	observability.RegisterMetrics()
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(observability.RequestLogger(log.Logger))
	r.Use(observability.RequestMetricsMiddleware(cfg.Name))
	r.Use(cors.New(cors.Config{
		AllowOrigins: normalizeOrigins(cfg.CorsOrigins),
		AllowMethods: []string{"GET", "POST"},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}))
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	var validator auth.Validator
	if strings.TrimSpace(cfg.AuthToken) != "" {
		validator = auth.StaticToken{Token: cfg.AuthToken}
	}

	return &Server{
		Name:      cfg.Name,
		Addr:      cfg.Addr,
		Appeared:  time.Now(),
		store:     usbmode.NewStore(cfg.Mode.PermPath, cfg.Mode.TmpPath),
		validator: validator,
		router:    r,
	}
}

// Attach wraps an existing router and store, primarily for tests.
func Attach(name string, router *gin.Engine, store *usbmode.Store) *Server {
	if router == nil {
		router = gin.New()
	}
	return &Server{
		Name:     name,
		Appeared: time.Now(),
		store:    store,
		router:   router,
	}
}

func (s *Server) HTTPRouter() *gin.Engine {
	return s.router
}

func (s *Server) Store() *usbmode.Store {
	return s.store
}

// SetValidator gates the mutating route; nil leaves it open.
func (s *Server) SetValidator(v auth.Validator) {
	s.validator = v
}

func (s *Server) Run() error {
	return s.router.Run(s.Addr)
}

func normalizeOrigins(origins []string) []string {
	out := make([]string, 0, len(origins))
	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		out = []string{"http://localhost:3000"}
	}
	return out
}
