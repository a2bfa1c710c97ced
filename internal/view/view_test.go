package view

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/studio-site/internal/pages"
)

func TestRenderDefaults(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	d, err := pages.LoadDefaults()
	require.NoError(t, err)
	layout := pages.Layout{Settings: d.SiteSettings, Navigation: d.Navigation, Social: d.SocialLinks}

	data := map[string]any{
		"home":    pages.HomePage{Layout: layout, Content: d.HomeContent, Capabilities: d.Capabilities, StudioImages: d.StudioImages},
		"shows":   pages.ShowsPage{Layout: layout, Content: d.ShowsContent},
		"join":    pages.JoinPage{Layout: layout, Content: d.JoinContent, Roles: d.Roles},
		"contact": pages.ContactPage{Layout: layout, Content: d.ContactContent},
	}
	for _, name := range Pages {
		var buf bytes.Buffer
		require.NoError(t, r.Render(&buf, name, data[name], nil), name)
		html := buf.String()
		assert.Contains(t, html, d.SiteSettings.SiteName, name)
		assert.Contains(t, html, `href="/shows"`, name)
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "home", data["home"], nil))
	assert.Contains(t, buf.String(), "object-position: 50% 50%")
	assert.Contains(t, buf.String(), "Stories worth watching")

	assert.Error(t, r.Render(&buf, "admin", nil, nil))
}

func TestRenderEscapes(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	p := pages.JoinPage{}
	p.Content.Title = "<script>alert(1)</script>"

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, "join", p, nil))
	assert.NotContains(t, buf.String(), "<script>alert(1)</script>")
	assert.Contains(t, buf.String(), "&lt;script&gt;")
}
