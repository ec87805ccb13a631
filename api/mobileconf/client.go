package mobileconf

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"github.com/escrow-tf/steamtrade/api"
	"github.com/escrow-tf/steamtrade/steamid"
	"github.com/escrow-tf/steamtrade/steamlang"
	"github.com/escrow-tf/steamtrade/totp"
)

var (
	ErrConfirmationFailed   = errors.New("mobile confirmation failed")
	ErrNeedsAuth            = errors.New("mobile confirmation session needs auth")
	ErrConfirmationNotFound = errors.New("mobile confirmation not found")
)

type ConfirmationType int

//goland:noinspection GoUnusedConst
const (
	InvalidConfirmationType ConfirmationType = iota
	TestConfirmationType
	TradeConfirmationType
	MarketListingConfirmationType
)

// Clock reports the current time on Steam's clock. Keys signed with a skewed clock are rejected.
type Clock interface {
	SteamTime(ctx context.Context) (time.Time, error)
}

// Identity is the account a Client confirms on behalf of.
type Identity struct {
	SteamId steamid.SteamID
	Cookies map[string]string
	Keys    *totp.State
}

type Client struct {
	transport api.Transport
	clock     Clock
	identity  Identity
}

func NewClient(transport api.Transport, clock Clock, identity Identity) *Client {
	return &Client{
		transport: transport,
		clock:     clock,
		identity:  identity,
	}
}

type Operation struct {
	Operation string
	ID        string
	Nonce     string
}

type Request struct {
	Operation *Operation
	Posts     bool
	Path      string
	Tag       string

	values  url.Values
	cookies map[string]string
}

func (r Request) Retryable() bool {
	return !r.Posts
}

func (r Request) CacheTTL() time.Duration {
	return 0
}

func (r Request) Method() string {
	if r.Posts {
		return http.MethodPost
	}
	return http.MethodGet
}

func (r Request) Url() string {
	return fmt.Sprintf("%s/mobileconf/%s", api.CommunityURL, r.Path)
}

func (r Request) Values() (url.Values, error) {
	return r.values, nil
}

func (r Request) Headers() (http.Header, error) {
	return api.CommunityHeaders(r.cookies, ""), nil
}

func (r Request) EnsureResponseSuccess(httpResponse *http.Response) error {
	if err := api.EnsureSuccessResponse(httpResponse); err != nil {
		return err
	}
	return steamlang.EnsureEResultResponse(httpResponse)
}

// Result is the envelope every mobileconf endpoint replies with.
type Result struct {
	Success   bool   `json:"success"`
	NeedsAuth bool   `json:"needsauth,omitempty"`
	Message   string `json:"message,omitempty"`
	Details   string `json:"details,omitempty"`
}

func (r Result) err(operation string) error {
	switch {
	case r.NeedsAuth:
		return eris.Wrapf(ErrNeedsAuth, "%s", operation)
	case !r.Success:
		return eris.Wrapf(ErrConfirmationFailed, "%s: %s", operation, r.Message)
	}
	return nil
}

func (c *Client) SendMobileConfRequest(ctx context.Context, request Request, response any) error {
	if c.identity.Keys == nil {
		return api.MissingOption("identitySecret")
	}

	steamTime, err := c.clock.SteamTime(ctx)
	if err != nil {
		return err
	}

	steamId := c.identity.SteamId.String()
	parameters := make(url.Values)
	parameters.Set("p", totp.GetDeviceId(steamId))
	parameters.Set("a", steamId)
	parameters.Set("k", c.identity.Keys.GenerateConfirmationKey(steamTime, request.Tag))
	parameters.Set("t", strconv.FormatInt(steamTime.Unix(), 10))
	parameters.Set("m", "react")
	parameters.Set("tag", request.Tag)

	if request.Operation != nil {
		parameters.Set("op", request.Operation.Operation)
		parameters.Add("cid[]", request.Operation.ID)
		parameters.Add("ck[]", request.Operation.Nonce)
	}

	request.values = parameters
	request.cookies = c.identity.Cookies
	return c.transport.Send(ctx, request, response)
}

type Confirmation struct {
	ID           string           `json:"id"`
	Type         ConfirmationType `json:"type"`
	CreatorID    string           `json:"creator_id"`
	Nonce        string           `json:"nonce"`
	TypeName     string           `json:"type_name"`
	Headline     string           `json:"headline"`
	Summary      []string         `json:"summary"`
	CreationTime int64            `json:"creation_time"`
	Icon         string           `json:"icon"`
}

type GetListResponse struct {
	Result
	Confirmations []Confirmation `json:"conf"`
}

func (c *Client) GetList(ctx context.Context) ([]Confirmation, error) {
	request := Request{
		Posts: false,
		Path:  "getlist",
		Tag:   "list",
	}

	response := GetListResponse{}
	if err := c.SendMobileConfRequest(ctx, request, &response); err != nil {
		return nil, err
	}

	if err := response.err("getlist"); err != nil {
		return nil, err
	}

	return response.Confirmations, nil
}

// FindByCreator returns the pending confirmation created by creatorId, such as a trade offer id.
func (c *Client) FindByCreator(ctx context.Context, creatorId string) (*Confirmation, error) {
	confirmations, err := c.GetList(ctx)
	if err != nil {
		return nil, err
	}

	for i := range confirmations {
		if confirmations[i].CreatorID == creatorId {
			return &confirmations[i], nil
		}
	}

	return nil, eris.Wrapf(ErrConfirmationNotFound, "no confirmation for %s", creatorId)
}

func (c *Client) respond(ctx context.Context, operation string, confirmation Confirmation) error {
	request := Request{
		Posts: true,
		Path:  "multiajaxop",
		Tag:   operation,
		Operation: &Operation{
			Operation: operation,
			ID:        confirmation.ID,
			Nonce:     confirmation.Nonce,
		},
	}

	response := Result{}
	if err := c.SendMobileConfRequest(ctx, request, &response); err != nil {
		return err
	}

	if err := response.err(operation); err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"confirmation": confirmation.ID,
		"creator":      confirmation.CreatorID,
		"operation":    operation,
	}).Info("Responded to mobile confirmation")
	return nil
}

func (c *Client) Accept(ctx context.Context, confirmation Confirmation) error {
	return c.respond(ctx, "allow", confirmation)
}

func (c *Client) Decline(ctx context.Context, confirmation Confirmation) error {
	return c.respond(ctx, "cancel", confirmation)
}
