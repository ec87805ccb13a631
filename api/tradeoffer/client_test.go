package tradeoffer

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escrow-tf/steamtrade/api"
	"github.com/escrow-tf/steamtrade/api/apitest"
	"github.com/escrow-tf/steamtrade/steamlang"
)

func TestClient_Create(t *testing.T) {
	t.Run("empty strError is success", func(t *testing.T) {
		transport := apitest.NewFakeTransport(`{"strError": "", "tradeofferid": "98765", "needs_mobile_confirmation": true}`)

		response, err := NewClient(transport).Create(context.Background(), testOfferRequest(), "sess", nil)
		require.NoError(t, err)
		assert.Equal(t, "98765", response.TradeOfferId)
		assert.True(t, response.NeedsMobileConfirmation)

		calls := transport.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, http.MethodPost, calls[0].Method)
		assert.Equal(t, "https://steamcommunity.com/tradeoffer/new/send", calls[0].Url)
	})

	t.Run("strError is an OfferRejectedError", func(t *testing.T) {
		transport := apitest.NewFakeTransport(`{"strError": "some error"}`)

		_, err := NewClient(transport).Create(context.Background(), testOfferRequest(), "sess", nil)

		var rejected *OfferRejectedError
		require.True(t, errors.As(err, &rejected))
		assert.Equal(t, "some error", rejected.Message)
	})

	t.Run("non-200 is a TransportError", func(t *testing.T) {
		transport := apitest.NewFakeTransport()
		transport.Queue(apitest.Response{Status: http.StatusInternalServerError})

		_, err := NewClient(transport).Create(context.Background(), testOfferRequest(), "sess", nil)

		var transportErr *api.TransportError
		require.True(t, errors.As(err, &transportErr))
	})

	t.Run("invalid requests are not sent", func(t *testing.T) {
		transport := apitest.NewFakeTransport()

		_, err := NewClient(transport).Create(context.Background(), OfferRequest{}, "sess", nil)
		assert.Error(t, err)
		assert.Empty(t, transport.Calls())
	})
}

func TestClient_Accept(t *testing.T) {
	t.Run("posts the accept form", func(t *testing.T) {
		transport := apitest.NewFakeTransport(`{"tradeid": "3377"}`)

		response, err := NewClient(transport).Accept(context.Background(), "555", "sess", map[string]string{"sessionid": "sess"})
		require.NoError(t, err)
		assert.Equal(t, "3377", response.TradeId)

		calls := transport.Calls()
		require.Len(t, calls, 1)
		assert.Equal(t, "https://steamcommunity.com/tradeoffer/555/accept", calls[0].Url)
		assert.Equal(t, "sess", calls[0].Values.Get("sessionid"))
		assert.Equal(t, "1", calls[0].Values.Get("serverid"))
		assert.Equal(t, "555", calls[0].Values.Get("tradeofferid"))
		assert.Equal(t, "https://steamcommunity.com/tradeoffer/555/", calls[0].Headers.Get("Referer"))
	})

	t.Run("requires an id", func(t *testing.T) {
		_, err := NewClient(apitest.NewFakeTransport()).Accept(context.Background(), "", "sess", nil)
		assert.True(t, errors.Is(err, api.ErrMissingRequiredOption))
	})

	t.Run("strError is rejected", func(t *testing.T) {
		transport := apitest.NewFakeTransport(`{"strError": "There was an error accepting this trade offer. (11)"}`)

		_, err := NewClient(transport).Accept(context.Background(), "555", "sess", nil)
		assert.True(t, errors.Is(err, InvalidStateError))
	})
}

func TestNewOfferRejectedError(t *testing.T) {
	t.Run("known result unwraps", func(t *testing.T) {
		err := NewOfferRejectedError("There was an error sending your trade offer.  Please try again later. (26)")
		assert.Equal(t, steamlang.RevokedResult, err.Result)
		assert.True(t, errors.Is(err, ItemsDontExistError))
	})

	t.Run("no result", func(t *testing.T) {
		err := NewOfferRejectedError("some error")
		assert.Equal(t, steamlang.InvalidResult, err.Result)
		assert.Nil(t, err.Unwrap())
		assert.Equal(t, "trade offer rejected: some error", err.Error())
	})
}
