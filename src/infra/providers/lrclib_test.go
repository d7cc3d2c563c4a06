package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/contre95/shadowbox/src/features/tagging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLRCLib_PrefersPlainLyrics(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Hey Jude", r.URL.Query().Get("track_name"))
		assert.Equal(t, "The Beatles", r.URL.Query().Get("artist_name"))
		w.Write([]byte(`[
			{"id":1,"name":"Hey Jude","instrumental":true},
			{"id":2,"name":"Hey Jude","plainLyrics":"Hey Jude, don't make it bad"}
		]`))
	}))
	defer srv.Close()

	p := NewLRCLibProvider(true, srv.Client()).WithBaseURL(srv.URL)
	lyrics, err := p.SearchLyrics(context.Background(), tagging.LyricsSearchParams{Title: "Hey Jude", Artist: "The Beatles"})

	require.NoError(t, err)
	assert.Equal(t, "Hey Jude, don't make it bad", lyrics)
}

func TestLRCLib_StripsSyncedTimestamps(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":3,"syncedLyrics":"[00:01.00] First line\n[00:05.20]Second line"}]`))
	}))
	defer srv.Close()

	p := NewLRCLibProvider(true, srv.Client()).WithBaseURL(srv.URL)
	lyrics, err := p.SearchLyrics(context.Background(), tagging.LyricsSearchParams{Title: "Song"})

	require.NoError(t, err)
	assert.Equal(t, "First line\nSecond line", lyrics)
}

func TestLRCLib_EmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	p := NewLRCLibProvider(true, srv.Client()).WithBaseURL(srv.URL)
	_, err := p.SearchLyrics(context.Background(), tagging.LyricsSearchParams{Title: "Nothing"})

	assert.Error(t, err)
	assert.Equal(t, "lrclib", p.Name())
}
