// Package artifact orchestrates the full pipeline: payload and style in,
// rendered outputs out, addressed by content fingerprint. Generated codes are
// persisted under the artifact directory; previews live only in a bounded
// in-memory cache.
package artifact

import (
	"bytes"
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/qrstudio/qrstudio/internal/export"
	"github.com/qrstudio/qrstudio/internal/qrmatrix"
	"github.com/qrstudio/qrstudio/internal/render"
	"github.com/qrstudio/qrstudio/internal/style"
)

// ErrUnknownArtifact marks a fingerprint this instance cannot resolve, either
// because it never generated it or because the entry aged out of the input
// cache.
var ErrUnknownArtifact = errors.New("artifact: unknown fingerprint")

// inputCacheSize bounds remembered generation inputs. Old entries age out and
// their handles stop resolving.
const inputCacheSize = 1024

// Handle addresses one generated artifact.
type Handle struct {
	Fingerprint string `json:"fingerprint"`
	Path        string `json:"path"`
}

// Request is everything needed to produce one artifact.
type Request struct {
	Payload string
	Level   qrmatrix.Level
	Style   style.Options
}

type inputs struct {
	payload string
	level   qrmatrix.Level
	cfg     style.Config
}

// Service builds, persists and re-exports artifacts.
type Service struct {
	log      *slog.Logger
	registry *export.Registry
	dir      string
	previews *lruCache[string, []byte]
	known    *lruCache[string, inputs]
}

// New creates a service persisting into dir. previewCacheSize bounds the
// in-memory preview cache.
func New(log *slog.Logger, registry *export.Registry, dir string, previewCacheSize int) (*Service, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("artifact: create dir: %w", err)
	}
	return &Service{
		log:      log,
		registry: registry,
		dir:      dir,
		previews: newLRU[string, []byte](previewCacheSize),
		known:    newLRU[string, inputs](inputCacheSize),
	}, nil
}

// Formats lists the concrete export formats.
func (s *Service) Formats() []export.Format {
	return s.registry.Formats()
}

// fingerprint derives the content address from the payload, level and the
// fully resolved style.
func fingerprint(payload string, level qrmatrix.Level, cfg style.Config) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%s", payload, level, cfg.Fingerprint())
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (s *Service) plan(req Request) (*render.Plan, style.Config, string, error) {
	cfg, err := style.Resolve(req.Style)
	if err != nil {
		return nil, style.Config{}, "", err
	}
	m, err := qrmatrix.FromPayload(req.Payload, req.Level)
	if err != nil {
		return nil, style.Config{}, "", err
	}
	p, err := render.Build(m, cfg)
	if err != nil {
		return nil, style.Config{}, "", err
	}
	return p, cfg, fingerprint(req.Payload, req.Level, cfg), nil
}

// Generate builds the artifact, persists its default PNG rendition and
// returns a handle for later exports.
func (s *Service) Generate(ctx context.Context, req Request) (Handle, error) {
	if err := ctx.Err(); err != nil {
		return Handle{}, err
	}
	plan, cfg, fp, err := s.plan(req)
	if err != nil {
		return Handle{}, err
	}

	var buf bytes.Buffer
	if err := s.registry.Export(&buf, plan, export.FormatPNG, export.Options{}); err != nil {
		return Handle{}, err
	}
	path := filepath.Join(s.dir, fp+".png")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return Handle{}, &export.IOError{Format: export.FormatPNG, Err: err}
	}

	s.known.Put(fp, inputs{payload: req.Payload, level: req.Level, cfg: cfg})
	s.log.InfoContext(ctx, "artifact generated",
		slog.String("fingerprint", fp),
		slog.String("level", req.Level.String()),
		slog.Int("size", plan.Size),
	)
	return Handle{Fingerprint: fp, Path: path}, nil
}

// Preview renders a PNG without persisting anything. Results are cached by
// fingerprint; the cache is best-effort and bounded.
func (s *Service) Preview(ctx context.Context, req Request) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	plan, _, fp, err := s.plan(req)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.previews.Get(fp); ok {
		s.log.DebugContext(ctx, "preview cache hit", slog.String("fingerprint", fp))
		return cached, nil
	}

	var buf bytes.Buffer
	if err := s.registry.Export(&buf, plan, export.FormatPNG, export.Options{}); err != nil {
		return nil, err
	}
	data := buf.Bytes()
	s.previews.Put(fp, data)
	return data, nil
}

// Export re-renders a previously generated artifact in the requested format.
func (s *Service) Export(ctx context.Context, fp string, format export.Format, opts export.Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if format == export.FormatAll {
		return nil, fmt.Errorf("artifact: use ExportAll for the combined format")
	}
	in, ok := s.known.Get(fp)
	if !ok {
		return nil, ErrUnknownArtifact
	}
	m, err := qrmatrix.FromPayload(in.payload, in.level)
	if err != nil {
		return nil, err
	}
	plan, err := render.Build(m, in.cfg)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.registry.Export(&buf, plan, format, opts); err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "artifact exported",
		slog.String("fingerprint", fp),
		slog.String("format", string(format)),
	)
	return buf.Bytes(), nil
}

// ExportAll re-renders a generated artifact in every concrete format.
func (s *Service) ExportAll(ctx context.Context, fp string, opts export.Options) (map[export.Format][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	in, ok := s.known.Get(fp)
	if !ok {
		return nil, ErrUnknownArtifact
	}
	m, err := qrmatrix.FromPayload(in.payload, in.level)
	if err != nil {
		return nil, err
	}
	plan, err := render.Build(m, in.cfg)
	if err != nil {
		return nil, err
	}
	out, err := s.registry.ExportAll(plan, opts)
	if err != nil {
		return nil, err
	}
	s.log.InfoContext(ctx, "artifact exported in all formats", slog.String("fingerprint", fp))
	return out, nil
}
