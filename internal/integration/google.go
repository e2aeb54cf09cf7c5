package integration

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/saborconflow/studio-backend/internal/cache"
	"github.com/saborconflow/studio-backend/internal/config"
	"github.com/saborconflow/studio-backend/internal/model"
)

const (
	googleBusinessBaseURL = "https://mybusiness.googleapis.com/v4"
	googleBusinessScope   = "https://www.googleapis.com/auth/business.manage"
)

// GoogleReview is one review from the My Business v4 reviews list.
type GoogleReview struct {
	ReviewID string `json:"reviewId"`
	Reviewer struct {
		DisplayName     string `json:"displayName"`
		ProfilePhotoURL string `json:"profilePhotoUrl"`
		IsAnonymous     bool   `json:"isAnonymous"`
	} `json:"reviewer"`
	StarRating string    `json:"starRating"`
	Comment    string    `json:"comment"`
	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
}

// Rating converts the StarRating enum to 1..5, 0 when unspecified.
func (r GoogleReview) Rating() int {
	switch r.StarRating {
	case "ONE":
		return 1
	case "TWO":
		return 2
	case "THREE":
		return 3
	case "FOUR":
		return 4
	case "FIVE":
		return 5
	}
	return 0
}

// ToTestimonial maps a review onto a testimonial record. Imported reviews are
// already public on Google, so they arrive approved.
func (r GoogleReview) ToTestimonial() *model.Testimonial {
	id := r.ReviewID
	name := r.Reviewer.DisplayName
	if name == "" || r.Reviewer.IsAnonymous {
		name = "Google reviewer"
	}
	published := r.CreateTime
	return &model.Testimonial{
		StudentName:    name,
		ClassType:      "other",
		Rating:         r.Rating(),
		Content:        r.Comment,
		PhotoURL:       r.Reviewer.ProfilePhotoURL,
		Status:         model.TestimonialApproved,
		GoogleReviewID: &id,
		PublishedAt:    &published,
	}
}

// GoogleReviews is the reviews list response.
type GoogleReviews struct {
	Reviews          []GoogleReview `json:"reviews"`
	AverageRating    float64        `json:"averageRating"`
	TotalReviewCount int            `json:"totalReviewCount"`
}

// GoogleBusinessReviewsAPI reads the location's Google reviews.
type GoogleBusinessReviewsAPI struct {
	cfg     config.GoogleConfig
	baseURL string
	http    *http.Client
	cache   *cache.Cache
}

// NewGoogleBusinessReviewsAPI builds the API over an OAuth2 client that refreshes
// its access token from the configured refresh token.
func NewGoogleBusinessReviewsAPI(cfg config.GoogleConfig, c *cache.Cache) *GoogleBusinessReviewsAPI {
	return newGoogleBusinessReviewsAPI(cfg, c, googleBusinessBaseURL, google.Endpoint)
}

func newGoogleBusinessReviewsAPI(cfg config.GoogleConfig, c *cache.Cache, baseURL string, endpoint oauth2.Endpoint) *GoogleBusinessReviewsAPI {
	api := &GoogleBusinessReviewsAPI{cfg: cfg, baseURL: baseURL, http: newHTTPClient(), cache: c}
	if cfg.IsConfigured() {
		oc := &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     endpoint,
			Scopes:       []string{googleBusinessScope},
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, api.http)
		api.http = oauth2.NewClient(ctx, oc.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken}))
		api.http.Timeout = defaultTimeout
	}
	return api
}

func (a *GoogleBusinessReviewsAPI) IsConfigured() bool {
	return a.cfg.IsConfigured()
}

// WriteReviewURL is the link that opens the Google review dialog, empty without a place id.
func (a *GoogleBusinessReviewsAPI) WriteReviewURL() string {
	return WriteReviewURL(a.cfg.PlaceID)
}

// WriteReviewURL builds the Google review dialog link for placeID.
func WriteReviewURL(placeID string) string {
	if placeID == "" {
		return ""
	}
	return "https://search.google.com/local/writereview?placeid=" + url.QueryEscape(placeID)
}

// Reviews returns the latest reviews, memoized for CacheTTL.GoogleAPI.
func (a *GoogleBusinessReviewsAPI) Reviews(ctx context.Context) (*GoogleReviews, error) {
	if !a.IsConfigured() {
		return nil, ErrNotConfigured
	}
	return cache.Remember(ctx, a.cache, config.CacheKey.GoogleReviewsAPIKey(a.cfg.LocationID), config.CacheTTL.GoogleAPI,
		func(ctx context.Context) (*GoogleReviews, error) {
			u := a.baseURL + "/accounts/" + url.PathEscape(a.cfg.AccountID) +
				"/locations/" + url.PathEscape(a.cfg.LocationID) + "/reviews?pageSize=50&orderBy=updateTime%20desc"
			out := &GoogleReviews{}
			if err := getJSON(ctx, a.http, "google", u, "", out); err != nil {
				return nil, err
			}
			if out.Reviews == nil {
				out.Reviews = []GoogleReview{}
			}
			return out, nil
		})
}
