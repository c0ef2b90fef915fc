package detect

import (
	"context"
	"encoding/json"
	"net/mail"
	"net/url"
	"strings"

	"quickdash/internal/domain"
)

// Provider inspects the query's shape and synthesizes zero or more
// results: a visitable URL, a mailto entry for an email address, or a
// memo entry when the query is a pasted JSON document.
type Provider struct{}

// New creates the detector provider
func New() *Provider {
	return &Provider{}
}

// Kind implements sources.Provider. Detected URLs join the horizontal
// row; memos land in the vertical list (the merger splits by result
// kind, not provider kind).
func (p *Provider) Kind() domain.ResultKind { return domain.KindURL }

// Search implements sources.Provider
func (p *Provider) Search(ctx context.Context, query string) ([]domain.SearchResult, error) {
	var out []domain.SearchResult

	if u, ok := detectURL(query); ok {
		out = append(out, domain.SearchResult{
			Kind:        domain.KindURL,
			DisplayName: "Open " + u,
			Path:        u,
			URL:         u,
		})
	}

	if addr, ok := detectEmail(query); ok {
		mailto := "mailto:" + addr
		out = append(out, domain.SearchResult{
			Kind:        domain.KindURL,
			DisplayName: "Email " + addr,
			Path:        mailto,
			URL:         mailto,
		})
	}

	if ok := detectJSON(query); ok {
		out = append(out, domain.SearchResult{
			Kind:        domain.KindMemo,
			DisplayName: "JSON document",
			Path:        "memo://json/" + query,
			Description: query,
		})
	}

	return out, nil
}

func detectURL(query string) (string, bool) {
	q := strings.TrimSpace(query)

	if strings.HasPrefix(q, "http://") || strings.HasPrefix(q, "https://") {
		if u, err := url.Parse(q); err == nil && u.Host != "" {
			return q, true
		}
		return "", false
	}

	// Bare domains like example.com get a scheme
	if strings.Contains(q, ".") && !strings.ContainsAny(q, " \t") {
		host := q
		if i := strings.IndexByte(host, '/'); i > 0 {
			host = host[:i]
		}
		if dot := strings.LastIndexByte(host, '.'); dot > 0 && dot < len(host)-2 {
			if u, err := url.Parse("https://" + q); err == nil && u.Host != "" && !strings.Contains(host, "@") {
				return "https://" + q, true
			}
		}
	}

	return "", false
}

func detectEmail(query string) (string, bool) {
	q := strings.TrimSpace(query)
	if !strings.Contains(q, "@") || strings.ContainsAny(q, " \t") {
		return "", false
	}
	addr, err := mail.ParseAddress(q)
	if err != nil {
		return "", false
	}
	return addr.Address, true
}

func detectJSON(query string) bool {
	q := strings.TrimSpace(query)
	if len(q) < 2 {
		return false
	}
	if (q[0] != '{' && q[0] != '[') {
		return false
	}
	return json.Valid([]byte(q))
}
