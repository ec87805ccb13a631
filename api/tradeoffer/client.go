package tradeoffer

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/escrow-tf/steamtrade/api"
)

type Client struct {
	Transport api.Transport
}

func NewClient(transport api.Transport) *Client {
	return &Client{Transport: transport}
}

type CreateResponse struct {
	Error                   string `json:"strError,omitempty"`
	TradeOfferId            string `json:"tradeofferid"`
	NeedsMobileConfirmation bool   `json:"needs_mobile_confirmation,omitempty"`
	NeedsEmailConfirmation  bool   `json:"needs_email_confirmation,omitempty"`
	EmailDomain             string `json:"email_domain,omitempty"`
}

func (c *Client) Create(
	ctx context.Context,
	request OfferRequest,
	sessionId string,
	cookies map[string]string,
) (*CreateResponse, error) {
	createRequest, err := Build(request, sessionId, cookies)
	if err != nil {
		return nil, err
	}

	var response CreateResponse
	if err := c.Transport.Send(ctx, createRequest, &response); err != nil {
		return nil, fmt.Errorf("error creating new Offer: %w", err)
	}

	// Error code descriptions:
	// 15	invalid trade access token
	// 16	timeout
	// 20	wrong contextid
	// 25	can't send more offers until some is accepted/cancelled...
	// 26	object is not in our inventory
	if response.Error != "" {
		return nil, NewOfferRejectedError(response.Error)
	}

	return &response, nil
}

type AcceptRequest struct {
	id        string
	sessionId string
	cookies   map[string]string
}

func (a AcceptRequest) Retryable() bool {
	return false
}

func (a AcceptRequest) CacheTTL() time.Duration {
	return 0
}

func (a AcceptRequest) Method() string {
	return http.MethodPost
}

func (a AcceptRequest) Url() string {
	return fmt.Sprintf("%s/tradeoffer/%s/accept", api.CommunityURL, url.PathEscape(a.id))
}

func (a AcceptRequest) Values() (url.Values, error) {
	values := make(url.Values)
	values.Set("sessionid", a.sessionId)
	values.Set("serverid", "1")
	values.Set("tradeofferid", a.id)
	return values, nil
}

func (a AcceptRequest) Headers() (http.Header, error) {
	referer := fmt.Sprintf("%s/tradeoffer/%s/", api.CommunityURL, url.PathEscape(a.id))
	return api.CommunityHeaders(a.cookies, referer), nil
}

func (a AcceptRequest) EnsureResponseSuccess(httpResponse *http.Response) error {
	return api.EnsureSuccessResponse(httpResponse)
}

type AcceptResponse struct {
	Error                   string `json:"strError,omitempty"`
	TradeId                 string `json:"tradeid,omitempty"`
	NeedsMobileConfirmation bool   `json:"needs_mobile_confirmation,omitempty"`
	NeedsEmailConfirmation  bool   `json:"needs_email_confirmation,omitempty"`
	EmailDomain             string `json:"email_domain,omitempty"`
}

func (c *Client) Accept(
	ctx context.Context,
	id string,
	sessionId string,
	cookies map[string]string,
) (*AcceptResponse, error) {
	if id == "" {
		return nil, api.MissingOption("tradeOfferId")
	}

	request := AcceptRequest{
		id:        id,
		sessionId: sessionId,
		cookies:   cookies,
	}

	var response AcceptResponse
	if err := c.Transport.Send(ctx, request, &response); err != nil {
		return nil, fmt.Errorf("error accepting offer %s: %w", id, err)
	}

	if response.Error != "" {
		return nil, NewOfferRejectedError(response.Error)
	}

	return &response, nil
}
