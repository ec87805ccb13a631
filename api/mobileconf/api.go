package mobileconf

import "context"

type Api interface {
	SendMobileConfRequest(ctx context.Context, request Request, response any) error
	GetList(ctx context.Context) ([]Confirmation, error)
	FindByCreator(ctx context.Context, creatorId string) (*Confirmation, error)
	Accept(ctx context.Context, confirmation Confirmation) error
	Decline(ctx context.Context, confirmation Confirmation) error
}
