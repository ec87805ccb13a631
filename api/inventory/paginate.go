package inventory

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"

	"github.com/escrow-tf/steamtrade/api"
)

// PageSource shapes the request for the page starting at cursor. The first page has an empty cursor.
type PageSource interface {
	PageRequest(cursor string) api.Request
}

type Paginator struct {
	Transport api.Transport
	Policy    MissingDescriptionPolicy
}

// LoadAll fetches every page of source in order and returns the merged items of all of them.
func (p Paginator) LoadAll(ctx context.Context, source PageSource, contextId string) ([]Item, error) {
	items := make([]Item, 0)
	cursor := ""

	for pageNumber := 1; ; pageNumber++ {
		page, err := p.fetchPage(ctx, source.PageRequest(cursor))
		if err != nil {
			return nil, err
		}

		inventoryItems, err := Merge(*page.Inventory, *page.Descriptions, contextId, p.Policy)
		if err != nil {
			return nil, err
		}

		currencyItems, err := Merge(page.Currency, *page.Descriptions, contextId, p.Policy)
		if err != nil {
			return nil, err
		}

		items = append(items, inventoryItems...)
		items = append(items, currencyItems...)

		logrus.WithFields(logrus.Fields{
			"page":      pageNumber,
			"items":     len(inventoryItems) + len(currencyItems),
			"contextid": contextId,
			"more":      bool(page.More),
		}).Debug("Loaded inventory page")

		if !page.More {
			return items, nil
		}

		next := string(page.MoreStart)
		if next == "" || next == cursor {
			return nil, eris.Wrapf(api.ErrInvalidResponse, "page %d has more items but no usable more_start", pageNumber)
		}
		cursor = next
	}
}

func (p Paginator) fetchPage(ctx context.Context, request api.Request) (*Page, error) {
	ctx, cancel := context.WithTimeout(ctx, api.RequestTimeout)
	defer cancel()

	var page Page
	if err := p.Transport.Send(ctx, request, &page); err != nil {
		return nil, err
	}

	if err := page.validate(); err != nil {
		return nil, err
	}

	return &page, nil
}
