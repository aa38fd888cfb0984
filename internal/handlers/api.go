package handlers

import (
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qrstudio/qrstudio/internal/artifact"
	"github.com/qrstudio/qrstudio/internal/export"
	"github.com/qrstudio/qrstudio/internal/logo"
	"github.com/qrstudio/qrstudio/internal/qrmatrix"
	"github.com/qrstudio/qrstudio/internal/render"
	"github.com/qrstudio/qrstudio/internal/style"
)

var contentTypes = map[export.Format]string{
	export.FormatPNG: "image/png",
	export.FormatSVG: "image/svg+xml",
	export.FormatPDF: "application/pdf",
	export.FormatEPS: "application/postscript",
}

// generateRequest is the JSON body of POST /api/generate. Binary fields
// travel base64-encoded.
type generateRequest struct {
	Payload    string        `json:"payload"`
	Level      string        `json:"level"`
	Style      style.Options `json:"style"`
	Logo       string        `json:"logo_base64"`
	RingImages []string      `json:"ring_base64"`
}

func (r *generateRequest) toServiceRequest() (artifact.Request, error) {
	level := qrmatrix.LevelMedium
	if r.Level != "" {
		var err error
		level, err = qrmatrix.ParseLevel(r.Level)
		if err != nil {
			return artifact.Request{}, err
		}
	}
	opts := r.Style
	if r.Logo != "" {
		raw, err := base64.StdEncoding.DecodeString(r.Logo)
		if err != nil {
			return artifact.Request{}, errors.New("logo_base64 is not valid base64")
		}
		opts.Logo = raw
	}
	for _, enc := range r.RingImages {
		raw, err := base64.StdEncoding.DecodeString(enc)
		if err != nil {
			return artifact.Request{}, errors.New("ring_base64 entry is not valid base64")
		}
		opts.RingImages = append(opts.RingImages, raw)
	}
	return artifact.Request{Payload: r.Payload, Level: level, Style: opts}, nil
}

// Generate builds and persists an artifact, answering with its handle.
func (h *Handler) Generate(c *gin.Context) {
	var req generateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	sreq, err := req.toServiceRequest()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	handle, err := h.service.Generate(c.Request.Context(), sreq)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, handle)
}

// Preview renders a throwaway PNG straight from query parameters, in the
// spirit of a plain <img src> integration.
func (h *Handler) Preview(c *gin.Context) {
	payload := c.Query("payload")
	level := qrmatrix.LevelMedium
	if s := c.Query("level"); s != "" {
		var err error
		level, err = qrmatrix.ParseLevel(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}
	opts := style.Options{
		Preset:         c.Query("preset"),
		ModuleShape:    c.Query("module_shape"),
		EyeFrameShape:  c.Query("eye_frame_shape"),
		EyeballShape:   c.Query("eyeball_shape"),
		EyeColor:       c.Query("eye_color"),
		ColorMode:      c.Query("color_mode"),
		Foreground:     c.Query("foreground"),
		Background:     c.Query("background"),
		GradientTo:     c.Query("gradient_to"),
		GradientStart:  c.Query("gradient_start"),
		GradientEnd:    c.Query("gradient_end"),
		GradientCenter: c.Query("gradient_center"),
	}
	if s := c.Query("margin"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "margin must be an integer"})
			return
		}
		opts.Margin = &v
	}
	if s := c.Query("module_scale"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "module_scale must be an integer"})
			return
		}
		opts.ModuleScale = &v
	}

	data, err := h.service.Preview(c.Request.Context(), artifact.Request{
		Payload: payload, Level: level, Style: opts,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, contentTypes[export.FormatPNG], data)
}

// exportRequest is the JSON body of POST /api/export.
type exportRequest struct {
	Fingerprint string         `json:"fingerprint"`
	Format      string         `json:"format"`
	Options     export.Options `json:"options"`
}

// Export re-renders a generated artifact. The "all" format answers with a
// JSON object of base64 documents; concrete formats stream the bytes.
func (h *Handler) Export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}
	format, err := export.ParseFormat(req.Format)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if format == export.FormatAll {
		out, err := h.service.ExportAll(c.Request.Context(), req.Fingerprint, req.Options)
		if err != nil {
			h.fail(c, err)
			return
		}
		files := make(gin.H, len(out))
		for f, data := range out {
			files[string(f)] = base64.StdEncoding.EncodeToString(data)
		}
		c.JSON(http.StatusOK, gin.H{"fingerprint": req.Fingerprint, "files": files})
		return
	}

	data, err := h.service.Export(c.Request.Context(), req.Fingerprint, format, req.Options)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=\""+req.Fingerprint+"."+string(format)+"\"")
	c.Data(http.StatusOK, contentTypes[format], data)
}

// Formats describes what the API can produce.
func (h *Handler) Formats(c *gin.Context) {
	formats := h.service.Formats()
	names := make([]string, 0, len(formats)+1)
	for _, f := range formats {
		names = append(names, string(f))
	}
	names = append(names, string(export.FormatAll))
	c.JSON(http.StatusOK, gin.H{
		"formats": names,
		"presets": style.PresetNames(),
		"module_shapes": []style.ModuleShape{
			style.ModuleSquare, style.ModuleDot, style.ModuleRound,
			style.ModuleDiamond, style.ModuleStar, style.ModuleTriangle,
		},
		"eye_shapes": []style.EyeShape{
			style.EyeSquare, style.EyeRounded, style.EyeCircle, style.EyeDiamond,
		},
	})
}

// fail maps domain errors onto HTTP statuses. Internal failures answer with a
// generic body; details land only in the log.
func (h *Handler) fail(c *gin.Context, err error) {
	var (
		verr *style.ValidationError
		tle  *logo.TooLargeError
		rle  *logo.RingLayoutError
		oe   *logo.ObstructionError
		uce  *export.UnsupportedCombinationError
		iie  *render.InternalInvariantError
	)
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid style", "violations": verr.Violations})
	case errors.As(err, &tle):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{
			"error":     err.Error(),
			"requested": tle.Requested,
			"max":       tle.Max,
			"level":     tle.Level.String(),
		})
	case errors.As(err, &rle), errors.As(err, &oe):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &uce):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "option": uce.Option})
	case errors.Is(err, artifact.ErrUnknownArtifact):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown artifact fingerprint"})
	case errors.Is(err, qrmatrix.ErrEmptyPayload), errors.Is(err, logo.ErrBadImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &iie):
		h.log.ErrorContext(c.Request.Context(), "render invariant violated", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		h.log.ErrorContext(c.Request.Context(), "request failed", slog.Any("error", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
