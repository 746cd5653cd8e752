package handlers_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mymat/internal/domain"
	"mymat/internal/repos"
)

func TestFeedFocusAndDots(t *testing.T) {
	a := newTestApp(t)

	cases := []struct {
		path    string
		focus   string
		hasPrev bool
		hasNext bool
	}{
		{"/", "Anatolia Kilim Mat", false, true},
		{"/?i=2", "Fez Berber Mat", true, true},
		{"/?i=0&key=ArrowLeft", "Anatolia Kilim Mat", false, true},
		{"/?i=2&key=ArrowRight", "Jute Travel Mat", true, true},
		{"/?i=7&key=ArrowRight", "Tabriz Medallion Mat", true, false},
		{"/?i=99", "Tabriz Medallion Mat", true, false},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			resp := a.get(tc.path)
			require.Equal(t, http.StatusOK, resp.StatusCode)
			body := readBody(t, resp)
			focus := body[strings.Index(body, `class="focus"`):]
			assert.True(t, strings.Contains(focus[:strings.Index(focus, "</article>")], tc.focus), "focused card should be %s", tc.focus)
			assert.Equal(t, 1, strings.Count(body, `aria-selected="true"`))
			assert.Equal(t, 7, strings.Count(body, `aria-selected="false"`))
			assert.Equal(t, tc.hasPrev, strings.Contains(body, `rel="prev"`))
			assert.Equal(t, tc.hasNext, strings.Contains(body, `rel="next"`))
		})
	}
}

func focusedOn(t *testing.T, body, name string) {
	t.Helper()
	focus := body[strings.Index(body, `class="focus"`):]
	assert.Contains(t, focus[:strings.Index(focus, "</article>")], name)
}

func TestFeedArrowKeysFollowLinks(t *testing.T) {
	a := newTestApp(t)

	body := readBody(t, a.get("/?i=2"))
	assert.Contains(t, body, `aria-keyshortcuts="ArrowLeft ArrowRight"`)
	assert.Contains(t, body, `<script src="/static/feed.js" defer></script>`)
	assert.Contains(t, body, `href="/?i=2&amp;key=ArrowLeft#feed"`)
	assert.Contains(t, body, `href="/?i=2&amp;key=ArrowRight#feed"`)

	focusedOn(t, readBody(t, a.get("/?i=2&key=ArrowRight")), "Jute Travel Mat")
	focusedOn(t, readBody(t, a.get("/?i=2&key=ArrowLeft")), "Cloud Shag Mat")

	resp := a.get("/static/feed.js")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	js := readBody(t, resp)
	assert.Contains(t, js, "ArrowLeft")
	assert.Contains(t, js, "ArrowRight")
	assert.Contains(t, js, `a[rel="`)
}

func TestShopCategoryFilter(t *testing.T) {
	a := newTestApp(t)

	body := readBody(t, a.get("/shop?category=Modern"))
	assert.Contains(t, body, "Minimal Line Mat")
	assert.NotContains(t, body, "Royal Persian Prayer Mat")
	assert.Contains(t, body, "1 mats in Modern")

	assert.Contains(t, readBody(t, a.get("/shop?category=All")), "8 mats in All")
	assert.Contains(t, readBody(t, a.get("/shop")), "8 mats in All")

	body = readBody(t, a.get("/shop?category=modern"))
	assert.Contains(t, body, "0 mats in modern", "labels match exactly")
	assert.Contains(t, body, "Nothing in this category yet.")
}

func TestTemplateAutoEscape(t *testing.T) {
	a := newTestApp(t)
	_, err := repos.NewProductRepo(a.db).Create(context.Background(), domain.Product{
		Name:        "<script>alert(1)</script>",
		Price:       decimal.RequireFromString("9.99"),
		Category:    "Modern",
		Description: "<b>desc</b>",
	})
	require.NoError(t, err)

	body := readBody(t, a.get("/shop?category=Modern"))
	if strings.Contains(body, "<script>alert(1)</script>") {
		t.Fatalf("found unescaped script tag in output")
	}
	if !strings.Contains(body, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped script not found; output=%s", body)
	}
}

func TestStaticPagesAndNotFound(t *testing.T) {
	a := newTestApp(t)
	for _, p := range []string{"/about", "/contact", "/login", "/checkout", "/healthz", "/static/app.css"} {
		assert.Equal(t, http.StatusOK, a.get(p).StatusCode, p)
	}

	resp := a.get("/no-such-page")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Page not found")

	resp = a.get("/media/..%2f..%2fgo.mod")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.NotContains(t, readBody(t, resp), "module mymat")
}
