package integration

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/model"
)

const graphBaseURL = "https://graph.facebook.com"

// graphTimeLayout is the timestamp format the Graph API uses for events and media.
const graphTimeLayout = "2006-01-02T15:04:05-0700"

// GraphEvent is one event returned by the page events edge.
type GraphEvent struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	Place       struct {
		Name string `json:"name"`
	} `json:"place"`
	Cover struct {
		Source string `json:"source"`
	} `json:"cover"`
}

// ToModel converts the Graph payload into a stored event.
func (e GraphEvent) ToModel(syncedAt time.Time) (*model.FacebookEvent, error) {
	start, err := ParseGraphTime(e.StartTime)
	if err != nil {
		return nil, err
	}
	ev := &model.FacebookEvent{
		FacebookID:   e.ID,
		Name:         e.Name,
		Description:  e.Description,
		StartTime:    start,
		PlaceName:    e.Place.Name,
		CoverURL:     e.Cover.Source,
		EventURL:     "https://www.facebook.com/events/" + e.ID,
		IsActive:     true,
		LastSyncedAt: syncedAt,
	}
	if e.EndTime != "" {
		end, err := ParseGraphTime(e.EndTime)
		if err == nil {
			ev.EndTime = &end
		}
	}
	return ev, nil
}

// ParseGraphTime parses Graph API timestamps, which may omit the offset colon.
func ParseGraphTime(s string) (time.Time, error) {
	t, err := time.Parse(graphTimeLayout, s)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// FacebookEventsAPI reads upcoming events from the studio's Facebook page.
type FacebookEventsAPI struct {
	cfg     config.FacebookConfig
	baseURL string
	http    *http.Client
	cache   *cache.Cache
}

func NewFacebookEventsAPI(cfg config.FacebookConfig, c *cache.Cache) *FacebookEventsAPI {
	return &FacebookEventsAPI{cfg: cfg, baseURL: graphBaseURL, http: newHTTPClient(), cache: c}
}

func (a *FacebookEventsAPI) IsConfigured() bool {
	return a.cfg.IsConfigured()
}

// UpcomingEvents returns the page's upcoming events, memoized for CacheTTL.FacebookAPI.
func (a *FacebookEventsAPI) UpcomingEvents(ctx context.Context) ([]GraphEvent, error) {
	if !a.IsConfigured() {
		return nil, ErrNotConfigured
	}
	return cache.Remember(ctx, a.cache, config.CacheKey.FacebookEventsAPIKey(a.cfg.PageID), config.CacheTTL.FacebookAPI,
		func(ctx context.Context) ([]GraphEvent, error) {
			q := url.Values{}
			q.Set("fields", "id,name,description,start_time,end_time,place,cover")
			q.Set("time_filter", "upcoming")
			q.Set("limit", "25")
			u := a.baseURL + "/" + a.cfg.APIVersion + "/" + url.PathEscape(a.cfg.PageID) + "/events?" + q.Encode()

			var out struct {
				Data []GraphEvent `json:"data"`
			}
			if err := getJSON(ctx, a.http, "facebook", u, a.cfg.AccessToken, &out); err != nil {
				return nil, err
			}
			if out.Data == nil {
				out.Data = []GraphEvent{}
			}
			return out.Data, nil
		})
}
