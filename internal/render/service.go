// Package render turns a validated workout plan into a paginated PDF.
//
// Every style runs the same pipeline: validate, resolve each row for each
// requested week, group each section into atomic units, measure and paginate
// the units for the style's Theme, then draw. Styles differ only in their
// Theme. Optional adornments (banner, scan-to-view linkback) never fail a
// document; they are logged and left out.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/claude/coachplan/internal/plan"
)

const (
	DefaultTimeout         = 30 * time.Second
	DefaultLinkbackTimeout = 5 * time.Second
	ContentTypePDF         = "application/pdf"
)

// ImageFunc turns a URL into PNG bytes for the linkback adornment.
type ImageFunc func(ctx context.Context, url string) ([]byte, error)

// Options configure a Service. The base URL is supplied here, never read
// from the environment.
type Options struct {
	// BaseURL is the public address plans are viewed at; empty disables the
	// linkback.
	BaseURL         string
	Linkback        ImageFunc
	Timeout         time.Duration
	LinkbackTimeout time.Duration
}

// Service renders documents. It holds no per-render state and is safe for
// concurrent use.
type Service struct {
	opts Options
	log  *slog.Logger
}

// NewService creates a Service, filling zero timeouts with defaults.
func NewService(opts Options, log *slog.Logger) *Service {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.LinkbackTimeout <= 0 {
		opts.LinkbackTimeout = DefaultLinkbackTimeout
	}
	if log == nil {
		log = slog.Default()
	}
	return &Service{opts: opts, log: log}
}

// Request is one render call.
type Request struct {
	Plan       plan.WorkoutPlan
	ClientName string
	Tools      map[string]string
	Weeks      []int
	Style      Style
}

// Result is a finished document.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
	Summary     Summary
	// Degraded is set when an adornment the theme asks for was left out.
	Degraded bool
}

// Layout validates, resolves and paginates a request without drawing it.
func (s *Service) Layout(ctx context.Context, req Request) (*Document, error) {
	if err := plan.Validate(req.Plan); err != nil {
		return nil, err
	}
	theme, err := ThemeFor(req.Style)
	if err != nil {
		return nil, err
	}
	rp, err := Resolve(req.Plan, Input{ClientName: req.ClientName, Tools: req.Tools, Weeks: req.Weeks})
	if err != nil {
		return nil, err
	}
	if err := alive(ctx); err != nil {
		return nil, err
	}
	return Layout(rp, theme)
}

// alive reports a passed deadline even before the context's timer has fired.
func alive(ctx context.Context) error {
	if d, ok := ctx.Deadline(); ok && !time.Now().Before(d) {
		return context.DeadlineExceeded
	}
	return ctx.Err()
}

// Render produces the complete PDF for a request. On any error no bytes are
// returned. Exceeding the configured timeout yields ErrTimeout.
func (s *Service) Render(ctx context.Context, req Request) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	doc, err := s.Layout(ctx, req)
	if err != nil {
		return nil, timeoutErr(err)
	}

	a := s.adornments(ctx, doc)
	var buf bytes.Buffer
	if err := writePDF(ctx, doc, a, &buf); err != nil {
		return nil, timeoutErr(err)
	}

	return &Result{
		Data:        buf.Bytes(),
		Filename:    Filename(doc.Plan.Title, doc.Plan.ClientName, "pdf"),
		ContentType: ContentTypePDF,
		Summary:     doc.Summary(),
		Degraded:    a.Degraded,
	}, nil
}

func timeoutErr(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	return err
}

func (s *Service) adornments(ctx context.Context, d *Document) adornments {
	var a adornments
	t := d.Theme

	if t.ShowBanner {
		img, err := banner(t, t.Geometry.UsableWidth(), t.Geometry.HeaderHeight-2)
		if err != nil {
			s.log.Warn("banner omitted", "plan_id", d.Plan.PlanID, "error", err)
			a.Degraded = true
		} else {
			a.Banner = img
		}
	}

	if t.ShowLinkback && s.opts.Linkback != nil && s.opts.BaseURL != "" {
		url := LinkbackURL(s.opts.BaseURL, d.Plan.PlanID.String())
		img, err := s.fetchLinkback(ctx, url)
		if err == nil {
			err = checkPNG(img)
		}
		if err != nil {
			s.log.Warn("linkback omitted", "plan_id", d.Plan.PlanID, "url", url, "error", err)
			a.Degraded = true
		} else {
			a.Linkback = img
			a.LinkbackURL = url
		}
	}
	return a
}

// fetchLinkback calls the image collaborator with its own deadline and
// recovers from a panic inside it.
func (s *Service) fetchLinkback(ctx context.Context, url string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.LinkbackTimeout)
	defer cancel()

	type result struct {
		data []byte
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- result{err: fmt.Errorf("linkback image panicked: %v", r)}
			}
		}()
		data, err := s.opts.Linkback(ctx, url)
		ch <- result{data: data, err: err}
	}()

	select {
	case r := <-ch:
		return r.data, r.err
	case <-ctx.Done():
		return nil, fmt.Errorf("linkback image: %w", ctx.Err())
	}
}

// checkPNG rejects bytes the PDF writer could not embed.
func checkPNG(data []byte) error {
	if len(data) == 0 {
		return errors.New("empty image")
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}
	if format != "png" {
		return fmt.Errorf("unsupported image format %q", format)
	}
	return nil
}

// LinkbackURL is the address a printed plan links back to.
func LinkbackURL(base, planID string) string {
	return strings.TrimRight(base, "/") + "/plans/" + planID
}

var whitespace = regexp.MustCompile(`\s+`)

// Filename builds "{title}_{clientName}.{ext}" with whitespace runs
// replaced by underscores.
func Filename(title, clientName, ext string) string {
	name := strings.TrimSpace(title) + "_" + strings.TrimSpace(clientName)
	name = whitespace.ReplaceAllString(name, "_")
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
	return name + "." + ext
}
