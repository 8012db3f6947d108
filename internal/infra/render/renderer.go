// Package render displays design documents in headless Chrome and rasterizes
// them to JPEG previews.
package render

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"

	"github.com/curaOS/Creative-Project/internal/domain/design"
	"github.com/curaOS/Creative-Project/internal/domain/preview"
)

// Config holds browser configuration.
type Config struct {
	// Bin is the Chrome binary; empty lets the launcher pick or download one.
	Bin string
	// DebuggerURL connects to an already running Chrome instead of launching.
	DebuggerURL    string
	ViewportWidth  int
	ViewportHeight int
	// Settle is the wait after load so render scripts can draw.
	Settle      time.Duration
	JPEGQuality int
	LoadTimeout time.Duration
}

// DefaultConfig returns a square viewport matching the 1:1 preview frame.
func DefaultConfig() Config {
	return Config{
		ViewportWidth:  1024,
		ViewportHeight: 1024,
		Settle:         200 * time.Millisecond,
		JPEGQuality:    90,
		LoadTimeout:    30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.ViewportWidth <= 0 {
		c.ViewportWidth = d.ViewportWidth
	}
	if c.ViewportHeight <= 0 {
		c.ViewportHeight = d.ViewportHeight
	}
	if c.Settle < 0 {
		c.Settle = 0
	}
	if c.JPEGQuality <= 0 || c.JPEGQuality > 100 {
		c.JPEGQuality = d.JPEGQuality
	}
	if c.LoadTimeout <= 0 {
		c.LoadTimeout = d.LoadTimeout
	}
	return c
}

var ErrBrowserNotConnected = errors.New("render: browser not connected")

// Renderer owns the Chrome connection and the single live surface.
// Loading a new document closes the previous surface.
type Renderer struct {
	cfg    Config
	logger *zap.Logger

	mu      sync.Mutex
	browser *rod.Browser
	current *Surface
}

var (
	_ preview.SurfaceLoader = (*Renderer)(nil)
	_ preview.Capturer      = (*Renderer)(nil)
)

func New(cfg Config) *Renderer {
	return &Renderer{
		cfg:    cfg.withDefaults(),
		logger: zap.NewNop(),
	}
}

func (r *Renderer) SetLogger(l *zap.Logger) {
	if r == nil || l == nil {
		return
	}
	r.logger = l.Named("render")
}

// Start connects to an existing Chrome or launches a new headless one.
func (r *Renderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.startLocked(ctx)
}

func (r *Renderer) startLocked(ctx context.Context) error {
	if r.browser != nil {
		if _, err := r.browser.Version(); err == nil {
			return nil
		}
		r.logger.Warn("stale browser connection detected, reconnecting")
		_ = r.browser.Close()
		r.browser = nil
		r.current = nil
	}

	controlURL := strings.TrimSpace(r.cfg.DebuggerURL)
	if controlURL == "" {
		l := launcher.New().Headless(true)
		if bin := strings.TrimSpace(r.cfg.Bin); bin != "" {
			l = l.Bin(bin)
		}
		u, err := l.Launch()
		if err != nil {
			return fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = u
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to chrome: %w", err)
	}
	r.browser = browser
	r.logger.Info("browser connected", zap.Bool("launched", strings.TrimSpace(r.cfg.DebuggerURL) == ""))
	return nil
}

// Close closes the live surface and the browser.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		r.current.close()
		r.current = nil
	}
	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	return err
}

// Load displays doc in a fresh page and waits for it to render.
func (r *Renderer) Load(ctx context.Context, doc design.Document) (preview.Surface, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.startLocked(ctx); err != nil {
		return nil, err
	}
	if r.browser == nil {
		return nil, ErrBrowserNotConnected
	}

	if r.current != nil {
		r.current.close()
		r.current = nil
	}

	start := time.Now()
	page, err := r.browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             r.cfg.ViewportWidth,
		Height:            r.cfg.ViewportHeight,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	p := page.Context(ctx).Timeout(r.cfg.LoadTimeout)
	if err := p.SetDocumentContent(doc.HTML()); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("set document: %w", err)
	}
	if err := p.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("wait load: %w", err)
	}

	if r.cfg.Settle > 0 {
		select {
		case <-time.After(r.cfg.Settle):
		case <-ctx.Done():
			_ = page.Close()
			return nil, ctx.Err()
		}
	}

	s := &Surface{page: page, doc: doc}
	r.current = s
	r.logger.Debug("Load ok", zap.Int("seed", doc.Seed), zap.Duration("elapsed", time.Since(start)))
	return s, nil
}

// Capture snapshots the surface's viewport as JPEG.
func (r *Renderer) Capture(ctx context.Context, surface preview.Surface) (preview.Image, error) {
	s, ok := surface.(*Surface)
	if !ok || s == nil || !s.Attached() {
		return preview.Image{}, &preview.CaptureError{Err: preview.ErrSurfaceNotAttached}
	}

	quality := r.cfg.JPEGQuality
	data, err := s.screenshot(ctx, &proto.PageCaptureScreenshot{
		Format:  proto.PageCaptureScreenshotFormatJpeg,
		Quality: &quality,
	})
	if err != nil {
		return preview.Image{}, &preview.CaptureError{Err: err}
	}
	if len(data) == 0 {
		return preview.Image{}, &preview.CaptureError{Err: preview.ErrSurfaceNotRendered}
	}
	r.logger.Debug("Capture ok", zap.Int("bytes", len(data)))
	return preview.Image{Data: data}, nil
}

// ------------------------------------------------------------
// Surface
// ------------------------------------------------------------

// Surface is a Chrome page showing one design document.
type Surface struct {
	mu     sync.Mutex
	page   *rod.Page
	doc    design.Document
	closed bool
}

var _ preview.Surface = (*Surface)(nil)

func (s *Surface) Document() design.Document { return s.doc }

func (s *Surface) Attached() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.page != nil && !s.closed
}

func (s *Surface) screenshot(ctx context.Context, req *proto.PageCaptureScreenshot) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.page == nil || s.closed {
		return nil, preview.ErrSurfaceNotAttached
	}
	return s.page.Context(ctx).Screenshot(false, req)
}

func (s *Surface) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.page != nil {
		_ = s.page.Close()
	}
}
