package tradeoffer

import "context"

type Api interface {
	Create(
		ctx context.Context,
		request OfferRequest,
		sessionId string,
		cookies map[string]string,
	) (*CreateResponse, error)
	Accept(ctx context.Context, id string, sessionId string, cookies map[string]string) (*AcceptResponse, error)
}
