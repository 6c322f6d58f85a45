package httpx

import (
	"net/http"
	"strconv"
	"strings"
)

// CORSConfig describes the cross-origin policy applied to every response.
type CORSConfig struct {
	AllowOrigin    string
	AllowMethods   []string
	AllowHeaders   []string
	ExposeHeaders  []string
	MaxAgeSeconds  int
	PreflightShort bool // answer OPTIONS here instead of passing it on
}

// DefaultCORS is the policy the gateway ships with.
func DefaultCORS(origin string) CORSConfig {
	if origin == "" {
		origin = "*"
	}
	return CORSConfig{
		AllowOrigin:    origin,
		AllowMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With"},
		ExposeHeaders:  []string{"Authorization"},
		MaxAgeSeconds:  86400,
		PreflightShort: true,
	}
}

// CORS stamps the configured headers on every response. Preflight requests
// get a bare 200 when PreflightShort is set.
func CORS(cfg CORSConfig) Middleware {
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	expose := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAgeSeconds)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", cfg.AllowOrigin)
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			if expose != "" {
				h.Set("Access-Control-Expose-Headers", expose)
			}
			if cfg.MaxAgeSeconds > 0 {
				h.Set("Access-Control-Max-Age", maxAge)
			}
			if cfg.AllowOrigin != "*" {
				h.Add("Vary", "Origin")
			}

			if cfg.PreflightShort && r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
