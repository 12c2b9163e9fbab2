package citycontext

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolvePrecedence(t *testing.T) {
	tests := []struct {
		name       string
		in         Input
		wantSlug   string
		wantSource Source
		persist    bool
	}{
		{"query wins", Input{Query: "  Edmonton ", Cookie: "calgary", Path: "/red-deer/services", Default: "calgary"}, "edmonton", SourceQuery, true},
		{"cookie beats path", Input{Cookie: "Banff", Path: "/red-deer/services/plumbing", Default: "calgary"}, "banff", SourceCookie, false},
		{"path segment", Input{Path: "/Red-Deer/services/plumbing", Default: "calgary"}, "red-deer", SourcePath, false},
		{"path services root", Input{Path: "/airdrie/services", Default: "calgary"}, "airdrie", SourcePath, false},
		{"blank query falls through", Input{Query: "   ", Path: "/airdrie/services", Default: "calgary"}, "airdrie", SourcePath, false},
		{"other shape uses default", Input{Path: "/blog/airdrie", Default: "calgary"}, "calgary", SourceDefault, false},
		{"empty segment uses default", Input{Path: "//services", Default: "calgary"}, "calgary", SourceDefault, false},
		{"malformed segment uses default", Input{Path: "/ca lgary!/services", Default: "calgary"}, "calgary", SourceDefault, false},
		{"empty default", Input{}, FallbackSlug, SourceDefault, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.in)
			assert.Equal(t, tt.wantSlug, got.Slug)
			assert.Equal(t, tt.wantSource, got.Source)
			assert.Equal(t, tt.persist, got.PersistCookie)
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	in := Input{Cookie: "calgary", Path: "/edmonton/services", Default: "calgary"}
	assert.Equal(t, Resolve(in), Resolve(in))
}

func TestPathCity(t *testing.T) {
	assert.Equal(t, "calgary", PathCity("/calgary/services"))
	assert.Equal(t, "calgary", PathCity("/calgary/services/plumbing?x=1"))
	assert.Equal(t, "", PathCity("/services"))
	assert.Equal(t, "", PathCity("/calgary/servicesx"))
	assert.Equal(t, "", PathCity("calgary/services"))
	assert.Equal(t, "", PathCity("/-calgary/services"))
}
