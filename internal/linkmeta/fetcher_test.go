package linkmeta

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullPage = `<!doctype html>
<html><head>
  <title>
    Example   Domain
  </title>
  <meta name="description" content="An example page">
  <meta property="og:image" content="/img/preview.png">
  <link rel="icon" href="favicon.ico">
</head><body><p>hello</p></body></html>`

func TestParse(t *testing.T) {
	base, _ := url.Parse("https://example.com/docs/index.html")

	tests := []struct {
		name string
		page string
		want Detail
	}{
		{
			name: "all fields",
			page: fullPage,
			want: Detail{
				Title:       "Example Domain",
				Description: "An example page",
				Icon:        "https://example.com/docs/favicon.ico",
				Image:       "https://example.com/img/preview.png",
			},
		},
		{
			name: "title only",
			page: `<html><head><title>Only</title></head></html>`,
			want: Detail{Title: "Only"},
		},
		{
			name: "empty document",
			page: ``,
			want: Detail{},
		},
		{
			name: "first description wins and needs content",
			page: `<head><meta name="description"><meta name="Description" content="second"><meta name="description" content="third"></head>`,
			want: Detail{Description: "second"},
		},
		{
			name: "base href overrides document location",
			page: `<head><base href="https://cdn.example.net/assets/"><link rel="icon" href="i.png"></head>`,
			want: Detail{Icon: "https://cdn.example.net/assets/i.png"},
		},
		{
			name: "absolute icon kept",
			page: `<head><link rel="ICON" href="https://other.example.org/x.ico"></head>`,
			want: Detail{Icon: "https://other.example.org/x.ico"},
		},
		{
			name: "shortcut icon is not icon",
			page: `<head><link rel="shortcut icon" href="s.ico"></head>`,
			want: Detail{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(strings.NewReader(tt.page), "text/html", base)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_Charset(t *testing.T) {
	page := "<html><head><title>Caf\xe9</title></head></html>"
	got := Parse(strings.NewReader(page), "text/html; charset=iso-8859-1", nil)
	assert.Equal(t, "Café", got.Title)
}

func TestDetail_JSONKeepsEmptyFields(t *testing.T) {
	base, _ := url.Parse("https://example.org/")
	d := Parse(strings.NewReader("<title>Only a title</title>"), "text/html", base)

	out, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Only a title","description":"","icon":"","image":""}`, string(out))
}

func TestFetch_ResolvesAgainstFinalURL(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new/page", http.StatusFound)
	})
	mux.HandleFunc("/new/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(fullPage))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	d, err := NewFetcher().Fetch(context.Background(), srv.URL+"/old")
	require.NoError(t, err)
	assert.Equal(t, "Example Domain", d.Title)
	assert.Equal(t, srv.URL+"/new/favicon.ico", d.Icon)
	assert.Equal(t, srv.URL+"/img/preview.png", d.Image)
}

func TestFetch_SendsHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte("<title>ok</title>"))
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, UserAgent, got.Get("User-Agent"))
	assert.Equal(t, acceptHeader, got.Get("Accept"))
	assert.Equal(t, srv.URL, got.Get("Referer"))
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	start := time.Now()
	_, err := NewFetcher(WithTimeout(100*time.Millisecond)).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.True(t, fe.Timeout())
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestFetch_CallerCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewFetcher().Fetch(ctx, srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var fe *FetchError
	assert.False(t, errors.As(err, &fe), "caller cancellation is not a remote failure")
}

func TestFetch_BodyTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<title>" + strings.Repeat("x", 1024) + "</title>"))
	}))
	defer srv.Close()

	_, err := NewFetcher(WithMaxBodySize(64)).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrBodyTooLarge)

	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.False(t, fe.Timeout())
}

func TestFetch_UnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := NewFetcher().Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestFetch_InvalidURL(t *testing.T) {
	for _, raw := range []string{"", "not a url", "/relative/path", "ftp://example.com/file", "http://"} {
		t.Run(raw, func(t *testing.T) {
			_, err := NewFetcher().Fetch(context.Background(), raw)
			assert.ErrorIs(t, err, ErrInvalidURL)
		})
	}
}
