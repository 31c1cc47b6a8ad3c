package registry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/scriptlab/engine/internal/enginerr"
)

// HTTP resolves ids by fetching them over HTTP(S). Absolute URLs are
// fetched directly; otherwise id is resolved against BaseURL, if
// configured (spec.md §4.5 "HTTP").
type HTTP struct {
	BaseURL string
	Client  *http.Client
	Token   string
}

// NewHTTP constructs an HTTP registry rooted at baseURL (may be empty).
func NewHTTP(baseURL string) *HTTP {
	return &HTTP{BaseURL: baseURL, Client: http.DefaultClient}
}

func isAbsoluteURL(id string) bool {
	u, err := url.Parse(id)
	return err == nil && u.IsAbs()
}

// Resolve implements Registry.
func (h *HTTP) Resolve(ctx context.Context, id string) (string, error) {
	target := id
	if !isAbsoluteURL(id) {
		if h.BaseURL == "" {
			return "", enginerr.New(enginerr.Registry, "cannot resolve relative id %q: no base URL configured", id)
		}
		base, err := url.Parse(h.BaseURL)
		if err != nil {
			return "", fmt.Errorf("invalid base URL %q: %w", h.BaseURL, err)
		}
		rel, err := url.Parse(id)
		if err != nil {
			return "", fmt.Errorf("invalid relative id %q: %w", id, err)
		}
		target = base.ResolveReference(rel).String()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("building request for %q: %w", target, err)
	}
	if h.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.Token)
	}

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", enginerr.Wrap(enginerr.Registry, err, "fetching %q", target)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", enginerr.New(enginerr.Registry, "%d %s", resp.StatusCode, strings.TrimSpace(resp.Status))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response from %q: %w", target, err)
	}
	return string(body), nil
}
