package twofactor

import (
	"context"
	"time"
)

type Api interface {
	SteamTime(ctx context.Context) (time.Time, error)
	AlignTime(ctx context.Context) error
	QueryTime(ctx context.Context) (*QueryTimeResponse, error)
}
