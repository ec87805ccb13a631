package inventory

import (
	"context"
	"time"

	"github.com/escrow-tf/steamtrade/api"
)

type Client struct {
	Transport api.Transport
	Policy    MissingDescriptionPolicy
	// CacheTTL caches own inventory pages in the transport's response cache, when it has one.
	CacheTTL time.Duration
}

func NewClient(transport api.Transport, policy MissingDescriptionPolicy, cacheTTL time.Duration) *Client {
	return &Client{
		Transport: transport,
		Policy:    policy,
		CacheTTL:  cacheTTL,
	}
}

func (c *Client) paginator() Paginator {
	return Paginator{Transport: c.Transport, Policy: c.Policy}
}

func (c *Client) LoadOwnInventory(
	ctx context.Context,
	cookies map[string]string,
	options OwnInventoryOptions,
) ([]Item, error) {
	if options.AppId == 0 {
		return nil, api.MissingOption("appId")
	}
	if options.ContextId == "" {
		return nil, api.MissingOption("contextId")
	}

	source := OwnInventorySource{
		Options:  options,
		Cookies:  cookies,
		CacheTTL: c.CacheTTL,
	}
	return c.paginator().LoadAll(ctx, source, options.ContextId)
}

func (c *Client) LoadPartnerInventory(
	ctx context.Context,
	cookies map[string]string,
	sessionId string,
	options PartnerInventoryOptions,
) ([]Item, error) {
	if options.PartnerSteamId == "" {
		return nil, api.MissingOption("partnerSteamId")
	}
	if options.AppId == 0 {
		return nil, api.MissingOption("appId")
	}
	if options.ContextId == "" {
		return nil, api.MissingOption("contextId")
	}

	source := PartnerInventorySource{
		Options:   options,
		SessionId: sessionId,
		Cookies:   cookies,
	}
	return c.paginator().LoadAll(ctx, source, options.ContextId)
}
