package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/danmuck/usbctl/internal/auth"
	"github.com/danmuck/usbctl/internal/observability"
	"github.com/danmuck/usbctl/internal/usbmode"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// Envelope is the uniform response wrapper for all API operations.
// Application failures ride the body with Code 1 while the transport
// status stays 200; device-side consumers depend on this.
type Envelope struct {
	Code  int    `json:"Code"`
	Error string `json:"Error"`
	Data  any    `json:"Data"`
}

func ok(data any) Envelope {
	return Envelope{Code: 0, Error: "", Data: data}
}

func fail(msg string) Envelope {
	return Envelope{Code: 1, Error: msg, Data: nil}
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": "0.0.1",
		})
	})

	s.router.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ready":   true,
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": "0.0.1",
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/api/usb/mode", s.handleModeGet)

	write := s.router.Group("/api")
	if s.validator != nil {
		write.Use(requireToken(s.validator))
	}
	write.POST("/usb/mode", s.handleModeSet)
}

func (s *Server) handleModeGet(c *gin.Context) {
	mode := s.store.Effective()
	name := "unknown"
	if mode > 0 {
		name = mode.String()
	}
	observability.RecordModeRead(s.Name, name)

	c.JSON(http.StatusOK, ok(gin.H{
		"mode":         name,
		"mode_value":   int(mode),
		"is_temporary": s.store.TemporaryActive(),
	}))
}

func (s *Server) handleModeSet(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusOK, fail("mode must not be empty"))
		return
	}

	name := gjson.GetBytes(body, "mode").String()
	permanent := gjson.GetBytes(body, "permanent").Bool()

	if name == "" {
		c.JSON(http.StatusOK, fail("mode must not be empty"))
		return
	}

	mode, known := usbmode.ModeFromName(name)
	if !known {
		c.JSON(http.StatusOK, fail("invalid mode, supported: "+strings.Join(usbmode.ModeNames(), ", ")))
		return
	}

	if err := s.store.Set(mode, permanent); err != nil {
		log.Error().
			Str("mode", name).
			Bool("permanent", permanent).
			Err(err).
			Msg("usb_mode_set_failed")
		observability.RecordModeSet(s.Name, name, permanent, false)
		c.JSON(http.StatusOK, fail("failed to persist mode"))
		return
	}

	observability.RecordModeSet(s.Name, name, permanent, true)
	c.JSON(http.StatusOK, ok(gin.H{
		"mode":      name,
		"permanent": permanent,
		"message":   "mode saved, reboot required to take effect",
	}))
}

func requireToken(v auth.Validator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer"))
		if err := v.Validate(token); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
