package inventory

import "context"

type Api interface {
	LoadOwnInventory(ctx context.Context, cookies map[string]string, options OwnInventoryOptions) ([]Item, error)
	LoadPartnerInventory(
		ctx context.Context,
		cookies map[string]string,
		sessionId string,
		options PartnerInventoryOptions,
	) ([]Item, error)
}
