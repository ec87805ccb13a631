package community

import "context"

type Api interface {
	GetOfferAccessToken(ctx context.Context, cookies map[string]string) (string, error)
	GetReceiptItems(ctx context.Context, tradeId string, cookies map[string]string) ([]ReceiptItem, error)
}
