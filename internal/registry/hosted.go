package registry

import (
	"context"
	"fmt"
	"net/http"
	"regexp"

	"github.com/scriptlab/engine/internal/enginerr"
)

// hostedIDRe parses "host:owner/repo/path[@branch]" (spec.md §4.5
// "Hosted (repository-style)").
var hostedIDRe = regexp.MustCompile(`^([^:]+):([^/]+)/([^/]+)/(.+?)(?:@([^@]+))?$`)

// HostedRef is a parsed hosted identifier.
type HostedRef struct {
	Host   string
	Owner  string
	Repo   string
	Path   string
	Branch string // empty if unspecified
}

// ParseHostedID parses a "host:owner/repo/path[@branch]" identifier.
func ParseHostedID(id string) (HostedRef, error) {
	m := hostedIDRe.FindStringSubmatch(id)
	if m == nil {
		return HostedRef{}, enginerr.New(enginerr.Registry, "invalid hosted identifier %q: expected host:owner/repo/path[@branch]", id)
	}
	return HostedRef{Host: m[1], Owner: m[2], Repo: m[3], Path: m[4], Branch: m[5]}, nil
}

// Hosted resolves repository-style identifiers against a base URL,
// optionally authenticating with a bearer token.
type Hosted struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// NewHosted constructs a Hosted registry rooted at baseURL.
func NewHosted(baseURL, token string) *Hosted {
	return &Hosted{BaseURL: baseURL, Token: token, Client: http.DefaultClient}
}

// Resolve implements Registry.
func (h *Hosted) Resolve(ctx context.Context, id string) (string, error) {
	ref, err := ParseHostedID(id)
	if err != nil {
		return "", err
	}

	branch := ref.Branch
	if branch == "" {
		branch = "main"
	}
	// Raw-content layout: base/host/owner/repo/branch/path, branch as its
	// own segment ahead of path rather than an "@branch" suffix tacked onto
	// the end of a URL (that form only makes sense inside the identifier
	// string itself, not the resolved fetch target).
	target := fmt.Sprintf("%s/%s/%s/%s/%s/%s", h.BaseURL, ref.Host, ref.Owner, ref.Repo, branch, ref.Path)

	httpReg := HTTP{BaseURL: "", Client: h.Client, Token: h.Token}
	return httpReg.Resolve(ctx, target)
}
