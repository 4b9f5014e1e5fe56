// Package loader fetches travel pages and files and turns them into documents.
// A failing source is logged and skipped; it never aborts the batch.
package loader

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"yatra/internal/domain"
)

const (
	DefaultTimeout   = 20 * time.Second
	DefaultUserAgent = "yatra/1.0 (+travel planner)"
	DefaultMaxBytes  = 10 << 20
)

// Config configures fetching.
type Config struct {
	Timeout time.Duration
	// RequestsPerSecond paces remote fetches; zero disables pacing.
	RequestsPerSecond float64
	UserAgent         string
	MaxBytes          int64
}

// Loader fetches sources sequentially.
type Loader struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	maxBytes  int64
	logger    *log.Logger
}

func New(cfg Config, logger *log.Logger) *Loader {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = DefaultMaxBytes
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBytes,
		logger:    logger,
	}
}

// Load fetches every source in order. Local sources may be glob patterns.
// The result may be shorter than sources; failures are only logged.
func (l *Loader) Load(ctx context.Context, sources []string) []domain.Document {
	var docs []domain.Document
	for _, src := range sources {
		for _, s := range expand(src) {
			if ctx.Err() != nil {
				l.logger.Warn("loading cancelled", "err", ctx.Err())
				return docs
			}
			doc, err := l.LoadOne(ctx, s)
			if err != nil {
				l.logger.Warn("skipping source", "source", s, "err", err)
				continue
			}
			l.logger.Debug("loaded source", "source", s, "chars", len(doc.Content))
			docs = append(docs, doc)
		}
	}
	l.logger.Info("loaded documents", "ok", len(docs), "sources", len(sources))
	return docs
}

// LoadOne fetches and decodes a single source.
func (l *Loader) LoadOne(ctx context.Context, source string) (domain.Document, error) {
	var (
		data        []byte
		contentType string
		err         error
	)
	if isRemote(source) {
		data, contentType, err = l.fetch(ctx, source)
	} else {
		data, contentType, err = l.readFile(source)
	}
	if err != nil {
		return domain.Document{}, err
	}

	doc := domain.Document{ID: hashString(source), Source: source}
	switch {
	case strings.Contains(contentType, "html"):
		title, text, err := ExtractHTML(bytes.NewReader(data))
		if err != nil {
			return domain.Document{}, err
		}
		doc.Title, doc.Content = title, text
	case strings.Contains(contentType, "pdf"):
		text, err := ExtractPDF(data)
		if err != nil {
			return domain.Document{}, err
		}
		doc.Content = text
	default:
		doc.Content = normaliseLines(string(data))
	}
	if strings.TrimSpace(doc.Content) == "" {
		return domain.Document{}, errors.New("no text content")
	}
	return doc, nil
}

func (l *Loader) fetch(ctx context.Context, source string) ([]byte, string, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", l.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/pdf,text/plain;q=0.9,*/*;q=0.5")
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("fetch failed: %s", resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, l.maxBytes))
	if err != nil {
		return nil, "", fmt.Errorf("reading body: %w", err)
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return data, strings.ToLower(ct), nil
}

func (l *Loader) readFile(source string) ([]byte, string, error) {
	path := strings.TrimPrefix(source, "file://")
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if info.Size() > l.maxBytes {
		return nil, "", fmt.Errorf("file too large: %d bytes", info.Size())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	return data, strings.ToLower(ct), nil
}

func isRemote(source string) bool {
	u, err := url.Parse(source)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// expand resolves glob patterns for local sources.
func expand(source string) []string {
	if isRemote(source) {
		return []string{source}
	}
	matches, _ := filepath.Glob(strings.TrimPrefix(source, "file://"))
	if matches == nil {
		return []string{source}
	}
	return matches
}

func hashString(s string) string {
	h := sha1.Sum([]byte(s))
	return hex.EncodeToString(h[:8])
}
