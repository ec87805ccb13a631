package econ

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"

	"github.com/escrow-tf/steamtrade/api"
	"github.com/escrow-tf/steamtrade/api/inventory"
	"github.com/escrow-tf/steamtrade/steamid"
)

type OfferState uint

//goland:noinspection GoUnusedConst
const (
	// InvalidOfferState - Invalid
	InvalidOfferState OfferState = 1
	// ActiveOfferState - This trade offer has been sent, neither party has acted on it yet.
	ActiveOfferState OfferState = 2
	// AcceptedOfferState - The trade offer was accepted by the recipient and items were exchanged.
	AcceptedOfferState OfferState = 3
	// CounteredOfferState - The recipient made a counter-offer
	CounteredOfferState OfferState = 4
	// ExpiredOfferState - The trade offer was not accepted before the expiration date
	ExpiredOfferState OfferState = 5
	// CanceledOfferState - The sender cancelled the offer
	CanceledOfferState OfferState = 6
	// DeclinedOfferState - The recipient declined the offer
	DeclinedOfferState OfferState = 7
	// InvalidItemsOfferState - Some of the items in the offer are no longer available (indicated by the
	// missing flag in the output)
	InvalidItemsOfferState OfferState = 8
	// CreatedNeedsConfirmationOfferState - The offer hasn't been sent yet and is awaiting email/mobile
	// confirmation. The offer is only visible to the sender.
	CreatedNeedsConfirmationOfferState OfferState = 9
	// CanceledBySecondFactorOfferState - Either party canceled the offer via email/mobile.
	CanceledBySecondFactorOfferState OfferState = 10
	// InEscrowOfferState - The trade has been placed on hold.
	InEscrowOfferState OfferState = 11
)

type OfferConfirmationMethod uint

//goland:noinspection GoUnusedConst
const (
	InvalidOfferConfirmationMethod   OfferConfirmationMethod = 0
	EmailOfferConfirmationMethod     OfferConfirmationMethod = 1
	MobileAppOfferConfirmationMethod OfferConfirmationMethod = 2
)

type Asset struct {
	AppId      uint32 `json:"appid"`
	ContextId  string `json:"contextid"`
	AssetId    string `json:"assetid"`
	CurrencyId string `json:"currencyid,omitempty"`
	ClassId    string `json:"classid"`
	InstanceId string `json:"instanceid"`
	Amount     string `json:"amount"`
	Missing    bool   `json:"missing"`
}

type TradeOffer struct {
	TradeOfferId   string `json:"tradeofferid"`
	TradeId        string `json:"tradeid,omitempty"`
	OtherAccountId uint32 `json:"accountid_other"`
	// OtherSteamId is derived from OtherAccountId once the offer is received.
	OtherSteamId       string                  `json:"steamid_other"`
	Message            string                  `json:"message"`
	ExpirationTime     uint32                  `json:"expiration_time"`
	State              OfferState              `json:"trade_offer_state"`
	ToGive             []Asset                 `json:"items_to_give,omitempty"`
	ToReceive          []Asset                 `json:"items_to_receive,omitempty"`
	IsOurOffer         bool                    `json:"is_our_offer"`
	TimeCreated        uint32                  `json:"time_created"`
	TimeUpdated        uint32                  `json:"time_updated"`
	FromRealTimeTrade  bool                    `json:"from_real_time_trade"`
	EscrowEndDate      uint32                  `json:"escrow_end_date"`
	ConfirmationMethod OfferConfirmationMethod `json:"confirmation_method"`
}

func attachSteamIds(offers ...*TradeOffer) {
	for _, offer := range offers {
		// an absent partner must not become the bare base id
		if offer == nil || offer.OtherAccountId == 0 {
			continue
		}
		offer.OtherSteamId = steamid.ToSteamId(strconv.FormatUint(uint64(offer.OtherAccountId), 10))
	}
}

type Client struct {
	Transport api.Transport
}

func NewClient(transport api.Transport) *Client {
	return &Client{Transport: transport}
}

// serviceRequest is a call to one IEconService method.
type serviceRequest struct {
	method    string
	httpVerb  string
	apiKey    string
	values    url.Values
	retryable bool
}

func (s serviceRequest) CacheTTL() time.Duration {
	return 0
}

func (s serviceRequest) EnsureResponseSuccess(httpResponse *http.Response) error {
	return api.EnsureSuccessResponse(httpResponse)
}

func (s serviceRequest) Headers() (http.Header, error) {
	return nil, nil
}

func (s serviceRequest) Retryable() bool {
	return s.retryable
}

func (s serviceRequest) Method() string {
	return s.httpVerb
}

func (s serviceRequest) Url() string {
	return fmt.Sprintf("%s/IEconService/%s/", api.BaseURL, s.method)
}

func (s serviceRequest) Values() (url.Values, error) {
	values := make(url.Values, len(s.values)+1)
	for key, value := range s.values {
		values[key] = value
	}
	values.Set("key", s.apiKey)
	return values, nil
}

func newGetRequest(method, apiKey string, values url.Values) serviceRequest {
	return serviceRequest{method: method, httpVerb: http.MethodGet, apiKey: apiKey, values: values, retryable: true}
}

func newPostRequest(method, apiKey string, values url.Values) serviceRequest {
	return serviceRequest{method: method, httpVerb: http.MethodPost, apiKey: apiKey, values: values}
}

type ListOptions struct {
	GetSentOffers        bool
	GetReceivedOffers    bool
	GetDescriptions      bool
	ActiveOnly           bool
	HistoricalOnly       bool
	TimeHistoricalCutoff uint32
	Language             string
}

func (o ListOptions) Values() url.Values {
	values := make(url.Values)
	flags := map[string]bool{
		"get_sent_offers":     o.GetSentOffers,
		"get_received_offers": o.GetReceivedOffers,
		"get_descriptions":    o.GetDescriptions,
		"active_only":         o.ActiveOnly,
		"historical_only":     o.HistoricalOnly,
	}
	for name, set := range flags {
		if set {
			values.Set(name, "1")
		}
	}
	if o.TimeHistoricalCutoff != 0 {
		values.Set("time_historical_cutoff", strconv.FormatUint(uint64(o.TimeHistoricalCutoff), 10))
	}
	if o.Language != "" {
		values.Set("language", o.Language)
	}
	return values
}

type OfferList struct {
	Sent         []*TradeOffer           `json:"trade_offers_sent"`
	Received     []*TradeOffer           `json:"trade_offers_received"`
	Descriptions []inventory.Description `json:"descriptions"`
	NextCursor   int                     `json:"next_cursor"`
}

type getTradeOffersResponse struct {
	Response *OfferList `json:"response"`
}

func (c *Client) GetTradeOffers(ctx context.Context, apiKey string, options ListOptions) (*OfferList, error) {
	if apiKey == "" {
		return nil, api.MissingOption("apiKey")
	}

	var response getTradeOffersResponse
	request := newGetRequest("GetTradeOffers/v1", apiKey, options.Values())
	if err := c.Transport.Send(ctx, request, &response); err != nil {
		return nil, err
	}

	if response.Response == nil {
		return nil, eris.Wrap(api.ErrInvalidResponse, "GetTradeOffers response missing")
	}

	attachSteamIds(response.Response.Sent...)
	attachSteamIds(response.Response.Received...)
	return response.Response, nil
}

type OfferDetail struct {
	Offer        *TradeOffer             `json:"offer"`
	Descriptions []inventory.Description `json:"descriptions"`
}

type getTradeOfferResponse struct {
	Response *OfferDetail `json:"response"`
}

func (c *Client) GetTradeOffer(ctx context.Context, apiKey string, id string, language string) (*OfferDetail, error) {
	if apiKey == "" {
		return nil, api.MissingOption("apiKey")
	}
	if id == "" {
		return nil, api.MissingOption("tradeOfferId")
	}

	values := make(url.Values)
	values.Set("tradeofferid", id)
	if language != "" {
		values.Set("language", language)
	}

	var response getTradeOfferResponse
	if err := c.Transport.Send(ctx, newGetRequest("GetTradeOffer/v1", apiKey, values), &response); err != nil {
		return nil, err
	}

	if response.Response == nil || response.Response.Offer == nil {
		return nil, eris.Wrapf(api.ErrInvalidResponse, "GetTradeOffer returned no offer %s", id)
	}

	attachSteamIds(response.Response.Offer)
	return response.Response, nil
}

func (c *Client) act(ctx context.Context, method string, apiKey string, id string) error {
	if apiKey == "" {
		return api.MissingOption("apiKey")
	}
	if id == "" {
		return api.MissingOption("tradeOfferId")
	}

	values := make(url.Values)
	values.Set("tradeofferid", id)
	return c.Transport.Send(ctx, newPostRequest(method, apiKey, values), nil)
}

func (c *Client) DeclineTradeOffer(ctx context.Context, apiKey string, id string) error {
	return c.act(ctx, "DeclineTradeOffer/v1", apiKey, id)
}

func (c *Client) CancelTradeOffer(ctx context.Context, apiKey string, id string) error {
	return c.act(ctx, "CancelTradeOffer/v1", apiKey, id)
}
