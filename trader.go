// Package steamtrade is a client for Steam's trade offer web and REST surfaces: inventories, offer
// submission and management, trade receipts and mobile confirmations.
package steamtrade

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"github.com/escrow-tf/steamtrade/api"
	"github.com/escrow-tf/steamtrade/api/community"
	"github.com/escrow-tf/steamtrade/api/econ"
	"github.com/escrow-tf/steamtrade/api/inventory"
	"github.com/escrow-tf/steamtrade/api/mobileconf"
	"github.com/escrow-tf/steamtrade/api/tradeoffer"
	"github.com/escrow-tf/steamtrade/api/twofactor"
	"github.com/escrow-tf/steamtrade/steamid"
	"github.com/escrow-tf/steamtrade/totp"
)

var (
	ErrNotConfigured     = errors.New("trade client is not configured")
	ErrAlreadyConfigured = errors.New("trade client is already configured")
	ErrNoIdentitySecret  = errors.New("no identity secret configured")
	ErrUnknownSteamId    = errors.New("own steam id is unknown")
)

// session is the immutable state built by Setup.
type session struct {
	credentials   Credentials
	cookies       map[string]string
	steamId       steamid.SteamID
	confirmations *mobileconf.Client
}

type TradeClient struct {
	transport api.Transport
	inventory inventory.Api
	offers    tradeoffer.Api
	econ      econ.Api
	community community.Api
	clock     *twofactor.Client
	language  string
	policy    inventory.MissingDescriptionPolicy
	cacheTTL  time.Duration
	now       func() time.Time
	session   atomic.Pointer[session]
}

type Option func(*TradeClient)

// WithMissingDescriptionPolicy sets how inventory loads treat assets with no matching description.
func WithMissingDescriptionPolicy(policy inventory.MissingDescriptionPolicy) Option {
	return func(c *TradeClient) {
		c.policy = policy
	}
}

// WithInventoryCacheTTL caches own inventory pages for ttl in the transport's response cache.
func WithInventoryCacheTTL(ttl time.Duration) Option {
	return func(c *TradeClient) {
		c.cacheTTL = ttl
	}
}

// WithLanguage sets the description language for offer lookups.
func WithLanguage(language string) Option {
	return func(c *TradeClient) {
		c.language = language
	}
}

func NewTradeClient(transport api.Transport, options ...Option) *TradeClient {
	client := &TradeClient{
		transport: transport,
		policy:    inventory.FailOnMissingDescription,
		now:       time.Now,
	}
	for _, option := range options {
		option(client)
	}

	client.inventory = inventory.NewClient(transport, client.policy, client.cacheTTL)
	client.offers = tradeoffer.NewClient(transport)
	client.econ = econ.NewClient(transport)
	client.community = community.NewClient(transport)
	client.clock = twofactor.NewClient(transport)
	return client
}

// Setup stores the credentials every later call uses. It may only be called once.
func (c *TradeClient) Setup(credentials Credentials) error {
	if err := credentials.validate(); err != nil {
		return err
	}

	state := &session{
		credentials: credentials,
		cookies:     credentials.cookieJar(),
	}

	if loginSecure, ok := state.cookies[SteamLoginSecureCookie]; ok {
		token, err := ParseLoginToken(loginSecure)
		if err != nil {
			logrus.WithError(err).Warn("Couldn't read steamLoginSecure cookie")
		} else {
			state.steamId = token.SteamId
			if token.Expired(c.now()) {
				logrus.WithField("expired", token.ExpiresAt).Warn("steamLoginSecure access token has expired")
			}
		}
	}

	if credentials.SteamId != "" {
		steamID, err := steamid.ParseSteamID64(credentials.SteamId)
		if err != nil {
			return err
		}
		state.steamId = steamID
	}

	if credentials.IdentitySecret != "" {
		if !state.steamId.IsValidIndividual() {
			return eris.Wrap(ErrUnknownSteamId, "confirmations need the account's steam id")
		}

		keys, err := totp.NewState(credentials.IdentitySecret)
		if err != nil {
			return err
		}

		state.confirmations = mobileconf.NewClient(c.transport, c.clock, mobileconf.Identity{
			SteamId: state.steamId,
			Cookies: state.cookies,
			Keys:    keys,
		})
	}

	if !c.session.CompareAndSwap(nil, state) {
		return ErrAlreadyConfigured
	}

	logrus.WithField("steamid", state.steamId.String()).Info("Trade client configured")
	return nil
}

func (c *TradeClient) configured() (*session, error) {
	state := c.session.Load()
	if state == nil {
		return nil, ErrNotConfigured
	}
	return state, nil
}

// SteamId is the account's own id, when Setup could determine it.
func (c *TradeClient) SteamId() (steamid.SteamID, error) {
	state, err := c.configured()
	if err != nil {
		return steamid.SteamID{}, err
	}
	if !state.steamId.IsValid() {
		return steamid.SteamID{}, ErrUnknownSteamId
	}
	return state.steamId, nil
}

func (c *TradeClient) LoadOwnInventory(
	ctx context.Context,
	options inventory.OwnInventoryOptions,
) ([]inventory.Item, error) {
	state, err := c.configured()
	if err != nil {
		return nil, err
	}
	return c.inventory.LoadOwnInventory(ctx, state.cookies, options)
}

func (c *TradeClient) LoadPartnerInventory(
	ctx context.Context,
	options inventory.PartnerInventoryOptions,
) ([]inventory.Item, error) {
	state, err := c.configured()
	if err != nil {
		return nil, err
	}
	return c.inventory.LoadPartnerInventory(ctx, state.cookies, state.credentials.SessionId, options)
}

func (c *TradeClient) SubmitOffer(
	ctx context.Context,
	request tradeoffer.OfferRequest,
) (*tradeoffer.CreateResponse, error) {
	state, err := c.configured()
	if err != nil {
		return nil, err
	}

	response, err := c.offers.Create(ctx, request, state.credentials.SessionId, state.cookies)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"tradeofferid":        response.TradeOfferId,
		"partner":             request.PartnerId,
		"mobile_confirmation": response.NeedsMobileConfirmation,
		"email_confirmation":  response.NeedsEmailConfirmation,
	}).Info("Trade offer sent")
	return response, nil
}

func (c *TradeClient) ListOffers(ctx context.Context, options econ.ListOptions) (*econ.OfferList, error) {
	state, err := c.configured()
	if err != nil {
		return nil, err
	}

	if options.Language == "" {
		options.Language = c.language
	}
	return c.econ.GetTradeOffers(ctx, state.credentials.ApiKey, options)
}

func (c *TradeClient) GetOffer(ctx context.Context, id string) (*econ.OfferDetail, error) {
	state, err := c.configured()
	if err != nil {
		return nil, err
	}
	return c.econ.GetTradeOffer(ctx, state.credentials.ApiKey, id, c.language)
}

func (c *TradeClient) AcceptOffer(ctx context.Context, id string) (*tradeoffer.AcceptResponse, error) {
	state, err := c.configured()
	if err != nil {
		return nil, err
	}
	return c.offers.Accept(ctx, id, state.credentials.SessionId, state.cookies)
}

func (c *TradeClient) DeclineOffer(ctx context.Context, id string) error {
	state, err := c.configured()
	if err != nil {
		return err
	}
	return c.econ.DeclineTradeOffer(ctx, state.credentials.ApiKey, id)
}

func (c *TradeClient) CancelOffer(ctx context.Context, id string) error {
	state, err := c.configured()
	if err != nil {
		return err
	}
	return c.econ.CancelTradeOffer(ctx, state.credentials.ApiKey, id)
}

func (c *TradeClient) GetOfferAccessToken(ctx context.Context) (string, error) {
	state, err := c.configured()
	if err != nil {
		return "", err
	}
	return c.community.GetOfferAccessToken(ctx, state.cookies)
}

func (c *TradeClient) GetReceiptItems(ctx context.Context, tradeId string) ([]community.ReceiptItem, error) {
	state, err := c.configured()
	if err != nil {
		return nil, err
	}
	return c.community.GetReceiptItems(ctx, tradeId, state.cookies)
}

func (c *TradeClient) confirmations() (*mobileconf.Client, error) {
	state, err := c.configured()
	if err != nil {
		return nil, err
	}
	if state.confirmations == nil {
		return nil, ErrNoIdentitySecret
	}
	return state.confirmations, nil
}

func (c *TradeClient) ListConfirmations(ctx context.Context) ([]mobileconf.Confirmation, error) {
	confirmations, err := c.confirmations()
	if err != nil {
		return nil, err
	}
	return confirmations.GetList(ctx)
}

// ConfirmOffer accepts the pending mobile confirmation for the offer id, such as one returned by
// SubmitOffer with NeedsMobileConfirmation set.
func (c *TradeClient) ConfirmOffer(ctx context.Context, id string) error {
	confirmations, confirmation, err := c.findConfirmation(ctx, id)
	if err != nil {
		return err
	}
	return confirmations.Accept(ctx, *confirmation)
}

// DenyOffer cancels the pending mobile confirmation for the offer id, so the offer is never sent.
func (c *TradeClient) DenyOffer(ctx context.Context, id string) error {
	confirmations, confirmation, err := c.findConfirmation(ctx, id)
	if err != nil {
		return err
	}
	return confirmations.Decline(ctx, *confirmation)
}

func (c *TradeClient) findConfirmation(ctx context.Context, id string) (*mobileconf.Client, *mobileconf.Confirmation, error) {
	if id == "" {
		return nil, nil, api.MissingOption("tradeOfferId")
	}

	confirmations, err := c.confirmations()
	if err != nil {
		return nil, nil, err
	}

	confirmation, err := confirmations.FindByCreator(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return confirmations, confirmation, nil
}
