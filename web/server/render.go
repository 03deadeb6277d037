package server

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/raster"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
)

var contentTypes = map[raster.Format]string{
	raster.FormatPNG: "image/png",
	raster.FormatBMP: "image/bmp",
	raster.FormatPPM: "image/x-portable-pixmap",
}

// handleRender renders the requested scene and responds with the encoded image.
// Render statistics are reported in X-Render-* headers.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	values := r.URL.Query()
	req, err := s.parseSceneRequest(values)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	format := raster.FormatPNG
	if f := values.Get("format"); f != "" {
		format = raster.Format(f)
	}
	contentType, ok := contentTypes[format]
	if !ok {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("%w: %q", raster.ErrUnsupportedFormat, format))
		return
	}

	sceneObj, ok := s.loadScene(w, req)
	if !ok {
		return
	}

	whitted := integrator.NewWhitted(sceneObj, integrator.WithMaxDepth(req.MaxDepth))
	rt, err := renderer.NewRaytracer(sceneObj, whitted, req.Width, req.Height,
		renderer.Config{TileSize: s.cfg.Render.TileSize, Workers: s.cfg.Render.Workers},
		s.logger.Named("renderer"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	// The request context stops the render when the client disconnects
	img, stats, err := rt.Render(r.Context())
	if err != nil {
		if r.Context().Err() != nil {
			s.logger.Info("render cancelled by client", zap.String("scene", req.Scene))
			return
		}
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if err := img.Encode(&buf, format); err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Render-Scene", sceneObj.Name)
	w.Header().Set("X-Render-Duration-Ms", strconv.FormatInt(stats.Duration.Milliseconds(), 10))
	w.Header().Set("X-Render-Pixels", strconv.Itoa(stats.TotalPixels))
	w.Header().Set("X-Render-Tiles", strconv.Itoa(stats.Tiles))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		s.logger.Warn("failed to write image", zap.Error(err))
	}
}
