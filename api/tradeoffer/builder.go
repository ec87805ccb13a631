package tradeoffer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"

	"github.com/escrow-tf/steamtrade/api"
	"github.com/escrow-tf/steamtrade/steamid"
)

// Asset references one stack of items put into an offer.
type Asset struct {
	AppId      uint32 `json:"appid"`
	ContextId  string `json:"contextid"`
	Amount     uint64 `json:"amount"`
	AssetId    string `json:"assetid,omitempty"`
	CurrencyId string `json:"currencyid,omitempty"`
}

type OfferRequest struct {
	ItemsFromMe   []Asset
	ItemsFromThem []Asset
	// PartnerId is sent as given in the form, and converted to an account id for the referer.
	PartnerId        string
	AccessToken      string
	CounteredOfferId string
	Message          string
}

func (r OfferRequest) Validate() error {
	if r.PartnerId == "" {
		return api.MissingOption("partnerId")
	}
	if len(r.ItemsFromMe) == 0 && len(r.ItemsFromThem) == 0 {
		return ErrEmptyOffer
	}
	return nil
}

type Offer struct {
	NewVersion bool  `json:"newversion"`
	Version    int   `json:"version"`
	Me         Party `json:"me"`
	Them       Party `json:"them"`
}

type Party struct {
	Assets   []Asset    `json:"assets"`
	Currency []struct{} `json:"currency"`
	Ready    bool       `json:"ready"`
}

func newParty(assets []Asset) Party {
	if assets == nil {
		assets = []Asset{}
	}
	return Party{
		Assets:   assets,
		Currency: []struct{}{},
		Ready:    false,
	}
}

// CreateRequest is a fully shaped offer submission.
type CreateRequest struct {
	Form          url.Values
	Header        http.Header
	SubmissionUrl string
	// Query is the new offer page query the referer was built from.
	Query url.Values
}

func (c *CreateRequest) Retryable() bool {
	return false
}

func (c *CreateRequest) CacheTTL() time.Duration {
	return 0
}

func (c *CreateRequest) Method() string {
	return http.MethodPost
}

func (c *CreateRequest) Url() string {
	return c.SubmissionUrl
}

func (c *CreateRequest) Values() (url.Values, error) {
	return c.Form, nil
}

func (c *CreateRequest) Headers() (http.Header, error) {
	return c.Header, nil
}

func (c *CreateRequest) EnsureResponseSuccess(httpResponse *http.Response) error {
	return api.EnsureSuccessResponse(httpResponse)
}

// Build shapes request into the form Steam's new offer endpoint expects.
func Build(request OfferRequest, sessionId string, cookies map[string]string) (*CreateRequest, error) {
	if err := request.Validate(); err != nil {
		return nil, err
	}

	offer := Offer{
		NewVersion: true,
		Version:    2,
		Me:         newParty(request.ItemsFromMe),
		Them:       newParty(request.ItemsFromThem),
	}

	offerJson, err := json.Marshal(offer)
	if err != nil {
		return nil, eris.Wrap(err, "error marshalling Offer")
	}

	form := make(url.Values)
	form.Set("serverid", "1")
	form.Set("sessionid", sessionId)
	form.Set("partner", request.PartnerId)
	form.Set("tradeoffermessage", request.Message)
	form.Set("json_tradeoffer", string(offerJson))

	query := make(url.Values)
	query.Set("partner", steamid.ToAccountId(request.PartnerId))

	if request.AccessToken != "" {
		createParams := url.Values{"trade_offer_access_token": {request.AccessToken}}
		form.Set("trade_offer_create_params", createParams.Encode())
		query.Set("token", request.AccessToken)
	}

	var referer string
	if request.CounteredOfferId != "" {
		form.Set("tradeofferidcountered", request.CounteredOfferId)
		referer = fmt.Sprintf("%s/tradeoffer/%s/", api.CommunityURL, url.PathEscape(request.CounteredOfferId))
	} else {
		referer = fmt.Sprintf("%s/tradeoffer/new/?%s", api.CommunityURL, query.Encode())
	}

	return &CreateRequest{
		Form:          form,
		Header:        api.CommunityHeaders(cookies, referer),
		SubmissionUrl: api.CommunityURL + "/tradeoffer/new/send",
		Query:         query,
	}, nil
}
