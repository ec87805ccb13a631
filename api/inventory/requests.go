package inventory

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/escrow-tf/steamtrade/api"
	"github.com/escrow-tf/steamtrade/steamid"
)

type PageRequest struct {
	url      string
	values   url.Values
	headers  http.Header
	cacheTTL time.Duration
}

func (r PageRequest) Retryable() bool {
	return true
}

func (r PageRequest) CacheTTL() time.Duration {
	return r.cacheTTL
}

func (r PageRequest) Method() string {
	return http.MethodGet
}

func (r PageRequest) Url() string {
	return r.url
}

func (r PageRequest) Values() (url.Values, error) {
	return r.values, nil
}

func (r PageRequest) Headers() (http.Header, error) {
	return r.headers, nil
}

func (r PageRequest) EnsureResponseSuccess(httpResponse *http.Response) error {
	return api.EnsureSuccessResponse(httpResponse)
}

func withCursor(values url.Values, cursor string) url.Values {
	copied := make(url.Values, len(values)+1)
	for key, value := range values {
		copied[key] = append([]string(nil), value...)
	}
	if cursor != "" {
		copied.Set("start", cursor)
	}
	return copied
}

type OwnInventoryOptions struct {
	AppId        uint32
	ContextId    string
	Language     string
	TradableOnly bool
}

// OwnInventorySource pages through the logged in account's inventory.
type OwnInventorySource struct {
	Options  OwnInventoryOptions
	Cookies  map[string]string
	CacheTTL time.Duration
}

func (s OwnInventorySource) Query() url.Values {
	query := make(url.Values)
	if s.Options.Language != "" {
		query.Set("l", s.Options.Language)
	}
	if s.Options.TradableOnly {
		query.Set("trading", "1")
	}
	return query
}

func (s OwnInventorySource) PageRequest(cursor string) api.Request {
	return PageRequest{
		url: fmt.Sprintf(
			"%s/my/inventory/json/%d/%s/",
			api.CommunityURL,
			s.Options.AppId,
			url.PathEscape(s.Options.ContextId),
		),
		values:   withCursor(s.Query(), cursor),
		headers:  api.CommunityHeaders(s.Cookies, ""),
		cacheTTL: s.CacheTTL,
	}
}

type PartnerInventoryOptions struct {
	PartnerSteamId string
	AppId          uint32
	ContextId      string
	Language       string
	// TradeOfferId scopes the request to an existing offer; empty means a new offer.
	TradeOfferId string
	AccessToken  string
}

// PartnerInventorySource pages through a trade partner's inventory as seen from the offer window.
type PartnerInventorySource struct {
	Options   PartnerInventoryOptions
	SessionId string
	Cookies   map[string]string
}

func (s PartnerInventorySource) offer() string {
	if s.Options.TradeOfferId != "" {
		return s.Options.TradeOfferId
	}
	return "new"
}

func (s PartnerInventorySource) Query() url.Values {
	query := make(url.Values)
	query.Set("sessionid", s.SessionId)
	query.Set("partner", s.Options.PartnerSteamId)
	query.Set("appid", fmt.Sprint(s.Options.AppId))
	query.Set("contextid", s.Options.ContextId)
	if s.Options.Language != "" {
		query.Set("l", s.Options.Language)
	}
	if s.Options.AccessToken != "" {
		query.Set("token", s.Options.AccessToken)
	}
	return query
}

func (s PartnerInventorySource) Referer() string {
	refererQuery := make(url.Values)
	refererQuery.Set("partner", steamid.ToAccountId(s.Options.PartnerSteamId))
	if s.Options.AccessToken != "" {
		refererQuery.Set("token", s.Options.AccessToken)
	}
	return fmt.Sprintf("%s/tradeoffer/%s/?%s", api.CommunityURL, url.PathEscape(s.offer()), refererQuery.Encode())
}

func (s PartnerInventorySource) PageRequest(cursor string) api.Request {
	return PageRequest{
		url:     fmt.Sprintf("%s/tradeoffer/%s/partnerinventory/", api.CommunityURL, url.PathEscape(s.offer())),
		values:  withCursor(s.Query(), cursor),
		headers: api.CommunityHeaders(s.Cookies, s.Referer()),
	}
}
