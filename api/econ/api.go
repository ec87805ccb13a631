package econ

import "context"

type Api interface {
	GetTradeOffer(ctx context.Context, apiKey string, id string, language string) (*OfferDetail, error)
	GetTradeOffers(ctx context.Context, apiKey string, options ListOptions) (*OfferList, error)
	DeclineTradeOffer(ctx context.Context, apiKey string, id string) error
	CancelTradeOffer(ctx context.Context, apiKey string, id string) error
}
