package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Request limits shared by render and inspect
const (
	minImageSize = 1
	maxImageSize = 4096
	maxDepthCap  = 32
)

// Server handles web requests for the raytracer
type Server struct {
	cfg    *config.Config
	logger *zap.Logger
	mux    *http.ServeMux
}

// NewServer creates a new web server. Render defaults and the scene directory
// come from cfg.
func NewServer(cfg *config.Config, logger *zap.Logger) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{cfg: cfg, logger: logger, mux: http.NewServeMux()}
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/scenes", s.handleScenes)
	s.mux.HandleFunc("GET /api/render", s.handleRender)
	s.mux.HandleFunc("GET /api/inspect", s.handleInspect)
	return s
}

// Handler returns the HTTP handler with request logging
func (s *Server) Handler() http.Handler {
	return s.logRequests(s.mux)
}

// Start serves until ctx is cancelled and then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting web server", zap.String("addr", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// statusRecorder captures the response status for request logging
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.Int("status", rec.status),
			zap.Duration("elapsed", time.Since(start)),
		)
	})
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	resp, err := scene.ListScenes(s.cfg.Scene.Dir)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// sceneRequest holds the parameters shared by render and inspect
type sceneRequest struct {
	Scene    string
	Width    int
	Height   int
	MaxDepth int
	Options  scene.Options
}

// parseSceneRequest reads scene, size, depth and light parameters, falling
// back to the server configuration
func (s *Server) parseSceneRequest(values url.Values) (sceneRequest, error) {
	req := sceneRequest{Scene: values.Get("scene")}
	if req.Scene == "" {
		req.Scene = s.cfg.Scene.Name
	}

	var err error
	if req.Width, err = parseIntParam(values, "width", s.cfg.Render.Width, minImageSize, maxImageSize); err != nil {
		return req, err
	}
	if req.Height, err = parseIntParam(values, "height", s.cfg.Render.Height, minImageSize, maxImageSize); err != nil {
		return req, err
	}
	if req.MaxDepth, err = parseIntParam(values, "maxDepth", s.cfg.Render.MaxDepth, 0, maxDepthCap); err != nil {
		return req, err
	}
	if req.Options.LightX, err = parseFloatParam(values, "lightX", s.cfg.Scene.LightX, -1e4, 1e4); err != nil {
		return req, err
	}
	if req.Options.LightZ, err = parseFloatParam(values, "lightZ", s.cfg.Scene.LightZ, -1e4, 1e4); err != nil {
		return req, err
	}

	if limit := s.cfg.Server.MaxPixels; limit > 0 && req.Width*req.Height > limit {
		return req, fmt.Errorf("image of %dx%d exceeds the %d pixel limit", req.Width, req.Height, limit)
	}
	return req, nil
}

// loadScene resolves a built-in or "file:" scene ID and maps lookup failures
// to 404. Clients cannot name files outside the scene directory.
func (s *Server) loadScene(w http.ResponseWriter, req sceneRequest) (*scene.Scene, bool) {
	sceneObj, err := scene.ResolveID(req.Scene, s.cfg.Scene.Dir, req.Options)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scene.ErrUnknownScene) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err)
		return nil, false
	}
	return sceneObj, true
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError reports err to the client. Server errors are logged in full and
// answered with the status text only.
func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	message := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
		message = strings.ToLower(http.StatusText(status))
	}
	writeJSON(w, status, map[string]string{"error": message})
}
