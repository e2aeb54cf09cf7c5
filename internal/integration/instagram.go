package integration

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/model"
)

// InstagramMedia is one post returned by the user media edge.
type InstagramMedia struct {
	ID           string `json:"id"`
	Caption      string `json:"caption"`
	MediaType    string `json:"media_type"` // IMAGE, VIDEO or CAROUSEL_ALBUM
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	Permalink    string `json:"permalink"`
	Timestamp    string `json:"timestamp"`
}

// ToModel converts the post into a gallery item.
func (m InstagramMedia) ToModel() *model.MediaItem {
	id := m.ID
	item := &model.MediaItem{
		Title:        captionTitle(m.Caption),
		MediaType:    model.MediaPhoto,
		URL:          m.MediaURL,
		ThumbnailURL: m.MediaURL,
		Caption:      m.Caption,
		Category:     "instagram",
		InstagramID:  &id,
		Permalink:    m.Permalink,
	}
	if m.MediaType == "VIDEO" {
		item.MediaType = model.MediaVideo
		item.ThumbnailURL = m.ThumbnailURL
	}
	if t, err := ParseGraphTime(m.Timestamp); err == nil {
		item.TakenAt = &t
	}
	return item
}

func captionTitle(caption string) string {
	line := strings.TrimSpace(strings.SplitN(caption, "\n", 2)[0])
	if line == "" {
		return "Instagram post"
	}
	if r := []rune(line); len(r) > 80 {
		return strings.TrimSpace(string(r[:80])) + "…"
	}
	return line
}

// InstagramAPI reads the studio's recent Instagram media.
type InstagramAPI struct {
	cfg     config.InstagramConfig
	baseURL string
	http    *http.Client
	cache   *cache.Cache
}

func NewInstagramAPI(cfg config.InstagramConfig, c *cache.Cache) *InstagramAPI {
	return &InstagramAPI{cfg: cfg, baseURL: graphBaseURL, http: newHTTPClient(), cache: c}
}

func (a *InstagramAPI) IsConfigured() bool {
	return a.cfg.IsConfigured()
}

// RecentMedia returns up to limit recent posts, memoized for CacheTTL.InstagramAPI.
func (a *InstagramAPI) RecentMedia(ctx context.Context, limit int) ([]InstagramMedia, error) {
	if !a.IsConfigured() {
		return nil, ErrNotConfigured
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	return cache.Remember(ctx, a.cache, config.CacheKey.InstagramMediaAPIKey(a.cfg.UserID, limit), config.CacheTTL.InstagramAPI,
		func(ctx context.Context) ([]InstagramMedia, error) {
			q := url.Values{}
			q.Set("fields", "id,caption,media_type,media_url,thumbnail_url,permalink,timestamp")
			q.Set("limit", strconv.Itoa(limit))
			u := a.baseURL + "/" + a.cfg.APIVersion + "/" + url.PathEscape(a.cfg.UserID) + "/media?" + q.Encode()

			var out struct {
				Data []InstagramMedia `json:"data"`
			}
			if err := getJSON(ctx, a.http, "instagram", u, a.cfg.AccessToken, &out); err != nil {
				return nil, err
			}
			if out.Data == nil {
				out.Data = []InstagramMedia{}
			}
			return out.Data, nil
		})
}

// ForgetRecentMedia drops the memoized media so the next read hits the API.
func (a *InstagramAPI) ForgetRecentMedia(ctx context.Context, limit int) error {
	return a.cache.Delete(ctx, config.CacheKey.InstagramMediaAPIKey(a.cfg.UserID, limit))
}

// VerifyChallenge checks a webhook subscription handshake.
func (a *InstagramAPI) VerifyChallenge(mode, token string) bool {
	return mode == "subscribe" && a.cfg.VerifyToken != "" &&
		hmac.Equal([]byte(token), []byte(a.cfg.VerifyToken))
}

// VerifySignature checks an X-Hub-Signature-256 header ("sha256=<hex>") against body.
func (a *InstagramAPI) VerifySignature(body []byte, header string) bool {
	if a.cfg.AppSecret == "" {
		return false
	}
	sig, ok := strings.CutPrefix(header, "sha256=")
	if !ok {
		return false
	}
	got, err := hex.DecodeString(sig)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(a.cfg.AppSecret))
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
