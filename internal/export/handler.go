package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/inamate/vecedit/backend-go/internal/document"
	"github.com/inamate/vecedit/backend-go/internal/engine"
)

const (
	maxRequestSize = 10 << 20 // 10MB
	maxDimension   = 8192
)

// ImageRequest is the body of POST /export/image.
type ImageRequest struct {
	Name   string                  `json:"name"`
	Format string                  `json:"format"`
	Width  int                     `json:"width"`
	Height int                     `json:"height"`
	Layers []document.LayerContent `json:"layers"`
}

type Handler struct {
	defaultWidth  int
	defaultHeight int
}

// NewHandler creates an export handler. Requests without a size use the
// given canvas size.
func NewHandler(width, height int) *Handler {
	return &Handler{defaultWidth: width, defaultHeight: height}
}

func (h *Handler) ExportImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
	requestID := uuid.New().String()

	var req ImageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	format, err := engine.ParseImageFormat(req.Format)
	if err != nil {
		http.Error(w, "invalid format: must be png or svg", http.StatusBadRequest)
		return
	}

	width, height := req.Width, req.Height
	if width <= 0 {
		width = h.defaultWidth
	}
	if height <= 0 {
		height = h.defaultHeight
	}
	if width > maxDimension || height > maxDimension {
		http.Error(w, fmt.Sprintf("image too large: max %dx%d", maxDimension, maxDimension), http.StatusBadRequest)
		return
	}

	sg := engine.NewSceneGraph()
	sg.Load(req.Layers)

	slog.Info("export started", "request", requestID, "format", format, "layers", len(req.Layers), "width", width, "height", height)

	var buf bytes.Buffer
	filename, err := engine.ExportScene(&buf, sg, width, height, req.Name, format)
	switch {
	case errors.Is(err, engine.ErrSVGNotImplemented):
		http.Error(w, "svg export is not implemented", http.StatusNotImplemented)
		return
	case err != nil:
		slog.Error("export failed", "request", requestID, "error", err)
		http.Error(w, "encoding failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if _, err := buf.WriteTo(w); err != nil {
		slog.Debug("write export response", "request", requestID, "error", err)
		return
	}

	slog.Info("export complete", "request", requestID, "file", filename)
}
