package detect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"quickdash/internal/domain"
)

func TestDetectFullURL(t *testing.T) {
	t.Parallel()
	p := New()

	results, err := p.Search(context.Background(), "https://example.com/docs")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, domain.KindURL, results[0].Kind)
	require.Equal(t, "https://example.com/docs", results[0].URL)
}

func TestDetectBareDomain(t *testing.T) {
	t.Parallel()
	p := New()

	results, err := p.Search(context.Background(), "github.com/someone/repo")
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, "https://github.com/someone/repo", results[0].URL, "Bare domains get a scheme")
}

func TestDetectEmail(t *testing.T) {
	t.Parallel()
	p := New()

	results, err := p.Search(context.Background(), "someone@example.com")
	require.NoError(t, err)

	var mailto string
	for _, r := range results {
		if r.Kind == domain.KindURL && len(r.URL) > 7 && r.URL[:7] == "mailto:" {
			mailto = r.URL
		}
	}
	require.Equal(t, "mailto:someone@example.com", mailto)
}

func TestDetectJSONBecomesMemo(t *testing.T) {
	t.Parallel()
	p := New()

	doc := `{"name": "value", "n": 3}`
	results, err := p.Search(context.Background(), doc)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, domain.KindMemo, results[0].Kind)
	require.Equal(t, doc, results[0].Description, "Memo carries the document for clipboard copy")
}

func TestDetectNothingForPlainText(t *testing.T) {
	t.Parallel()
	p := New()

	for _, query := range []string{"report", "quarterly report", "not json {", "x@", "two words.com"} {
		results, err := p.Search(context.Background(), query)
		require.NoError(t, err)
		require.Empty(t, results, "Query %q should detect nothing", query)
	}
}
