package integration

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/model"
)

func newTestCache(t *testing.T) *cache.Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return cache.New(rdb, zerolog.Nop())
}

func TestNormalizeClassType(t *testing.T) {
	cases := map[string]string{
		"salsa on1":       ClassSalsaOn1,
		"Salsa-On-1":      ClassSalsaOn1,
		"  SALSA  ON 2 ":  ClassSalsaOn2,
		"bachata sensual": ClassBachata,
		"Bachata":         ClassBachata,
		"rueda":           ClassCasino,
		"Casino":          ClassCasino,
		"private lessons": ClassPrivate,
		"zumba":           ClassOther,
		"":                ClassOther,
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeClassType(in), in)
	}
}

func TestFacebookUpcomingEventsMemoized(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		assert.Equal(t, "/v18.0/page-1/events", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Empty(t, r.URL.Query().Get("access_token"))
		assert.Equal(t, "upcoming", r.URL.Query().Get("time_filter"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"id":"123","name":"Salsa Social","start_time":"2026-05-01T20:00:00-0600","end_time":"2026-05-01T23:30:00-0600","place":{"name":"Studio"},"cover":{"source":"https://img/cover.jpg"}}]}`))
	}))
	defer srv.Close()

	api := NewFacebookEventsAPI(config.FacebookConfig{APIVersion: "v18.0", PageID: "page-1", AccessToken: "tok"}, newTestCache(t))
	api.baseURL = srv.URL

	for i := 0; i < 2; i++ {
		events, err := api.UpcomingEvents(context.Background())
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, "Salsa Social", events[0].Name)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	ev, err := (GraphEvent{ID: "123", Name: "x", StartTime: "2026-05-01T20:00:00-0600", EndTime: "2026-05-01T23:30:00-0600"}).ToModel(time.Now())
	require.NoError(t, err)
	assert.Equal(t, 2, ev.StartTime.UTC().Day())
	require.NotNil(t, ev.EndTime)
	assert.Equal(t, "https://www.facebook.com/events/123", ev.EventURL)
}

func TestFacebookAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"Invalid OAuth access token."}}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	api := NewFacebookEventsAPI(config.FacebookConfig{APIVersion: "v18.0", PageID: "p", AccessToken: "bad"}, nil)
	api.baseURL = srv.URL

	_, err := api.UpcomingEvents(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "facebook", apiErr.Service)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "Invalid OAuth")
}

func TestTransportErrorsOmitAccessToken(t *testing.T) {
	const secret = "SECRET-PAGE-TOKEN"

	fb := NewFacebookEventsAPI(config.FacebookConfig{APIVersion: "v18.0", PageID: "p", AccessToken: secret}, nil)
	fb.baseURL = "http://127.0.0.1:1"
	_, err := fb.UpcomingEvents(context.Background())
	require.Error(t, err)
	assert.NotContains(t, err.Error(), secret)

	ig := NewInstagramAPI(config.InstagramConfig{APIVersion: "v18.0", UserID: "u", AccessToken: secret}, nil)
	ig.baseURL = "http://127.0.0.1:1"
	_, err = ig.RecentMedia(context.Background(), 5)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), secret)
}

func TestRedactURLError(t *testing.T) {
	err := redactURLError(&url.Error{Op: "Get", URL: "https://graph.facebook.com/v18.0/p/events?access_token=abc&limit=25", Err: errors.New("dial tcp: refused")})
	assert.Equal(t, `Get "https://graph.facebook.com/v18.0/p/events": dial tcp: refused`, err.Error())

	plain := errors.New("boom")
	assert.Same(t, plain, redactURLError(plain))
}

func TestNotConfigured(t *testing.T) {
	ctx := context.Background()
	_, err := NewFacebookEventsAPI(config.FacebookConfig{}, nil).UpcomingEvents(ctx)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewInstagramAPI(config.InstagramConfig{}, nil).RecentMedia(ctx, 10)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewGoogleBusinessReviewsAPI(config.GoogleConfig{}, nil).Reviews(ctx)
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = NewSpotifyAPI(config.SpotifyConfig{}, nil).Playlist(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestInstagramRecentMediaToModel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v18.0/ig-1/media", r.URL.Path)
		assert.Equal(t, "12", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"data":[
			{"id":"a1","caption":"Friday social 💃\nmore text","media_type":"IMAGE","media_url":"https://cdn/a1.jpg","permalink":"https://instagram.com/p/a1","timestamp":"2026-04-01T10:00:00+0000"},
			{"id":"a2","caption":"","media_type":"VIDEO","media_url":"https://cdn/a2.mp4","thumbnail_url":"https://cdn/a2.jpg","permalink":"https://instagram.com/p/a2","timestamp":"2026-04-02T10:00:00+0000"}
		]}`))
	}))
	defer srv.Close()

	api := NewInstagramAPI(config.InstagramConfig{APIVersion: "v18.0", UserID: "ig-1", AccessToken: "tok"}, nil)
	api.baseURL = srv.URL

	media, err := api.RecentMedia(context.Background(), 12)
	require.NoError(t, err)
	require.Len(t, media, 2)

	photo := media[0].ToModel()
	assert.Equal(t, model.MediaPhoto, photo.MediaType)
	assert.Equal(t, "Friday social 💃", photo.Title)
	require.NotNil(t, photo.TakenAt)

	video := media[1].ToModel()
	assert.Equal(t, model.MediaVideo, video.MediaType)
	assert.Equal(t, "https://cdn/a2.jpg", video.ThumbnailURL)
	assert.Equal(t, "Instagram post", video.Title)
	assert.Equal(t, "a2", *video.InstagramID)
}

func TestInstagramVerifySignature(t *testing.T) {
	api := NewInstagramAPI(config.InstagramConfig{AppSecret: "shh", VerifyToken: "verify-me"}, nil)
	body := []byte(`{"object":"instagram","entry":[]}`)

	mac := hmac.New(sha256.New, []byte("shh"))
	mac.Write(body)
	good := "sha256=" + hex.EncodeToString(mac.Sum(nil))

	assert.True(t, api.VerifySignature(body, good))
	assert.False(t, api.VerifySignature([]byte(`{}`), good))
	assert.False(t, api.VerifySignature(body, "sha1=abc"))
	assert.False(t, api.VerifySignature(body, "sha256=zz"))

	assert.True(t, api.VerifyChallenge("subscribe", "verify-me"))
	assert.False(t, api.VerifyChallenge("subscribe", "nope"))
	assert.False(t, api.VerifyChallenge("unsubscribe", "verify-me"))

	noSecret := NewInstagramAPI(config.InstagramConfig{}, nil)
	assert.False(t, noSecret.VerifySignature(body, good))
}

func TestGoogleReviewsUsesRefreshedToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))
		assert.Equal(t, "rt", r.PostForm.Get("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/accounts/acc/locations/loc/reviews", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"reviews":[{"reviewId":"r1","reviewer":{"displayName":"Sam"},"starRating":"FOUR","comment":"Great vibes","createTime":"2026-03-01T12:00:00Z"}],"averageRating":4.5,"totalReviewCount":10}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	cfg := config.GoogleConfig{AccountID: "acc", LocationID: "loc", PlaceID: "place", ClientID: "id", ClientSecret: "secret", RefreshToken: "rt"}
	api := newGoogleBusinessReviewsAPI(cfg, nil, srv.URL, oauth2.Endpoint{TokenURL: srv.URL + "/token", AuthStyle: oauth2.AuthStyleInParams})

	out, err := api.Reviews(context.Background())
	require.NoError(t, err)
	require.Len(t, out.Reviews, 1)
	assert.Equal(t, 10, out.TotalReviewCount)

	tm := out.Reviews[0].ToTestimonial()
	assert.Equal(t, 4, tm.Rating)
	assert.Equal(t, "Sam", tm.StudentName)
	assert.Equal(t, model.TestimonialApproved, tm.Status)
	assert.Equal(t, "r1", *tm.GoogleReviewID)

	assert.Equal(t, "https://search.google.com/local/writereview?placeid=place", api.WriteReviewURL())
	assert.Empty(t, WriteReviewURL(""))
}

func TestSpotifyPlaylistClientCredentials(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"sp-1","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/playlists/37i9dQZF1DX4OjfOteYnH8", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sp-1", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"37i9dQZF1DX4OjfOteYnH8","name":"Salsa Practice","images":[{"url":"https://i.scdn.co/big.jpg"},{"url":"https://i.scdn.co/small.jpg"}],"tracks":{"total":42}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := newSpotifyAPI(config.SpotifyConfig{ClientID: "id", ClientSecret: "secret"}, newTestCache(t), srv.URL, srv.URL+"/token")
	p, err := api.Playlist(context.Background(), "37i9dQZF1DX4OjfOteYnH8")
	require.NoError(t, err)
	assert.Equal(t, "Salsa Practice", p.Name)
	assert.Equal(t, 42, p.Tracks.Total)
	assert.Equal(t, "https://i.scdn.co/big.jpg", p.ImageURL())
	assert.Equal(t, "https://open.spotify.com/embed/playlist/37i9dQZF1DX4OjfOteYnH8", SpotifyEmbedURL(p.ID))
}
