package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escrow-tf/steamtrade/api"
	"github.com/escrow-tf/steamtrade/api/apitest"
)

func TestOwnInventorySource(t *testing.T) {
	cookies := map[string]string{"sessionid": "abc"}

	t.Run("tradable only adds trading=1", func(t *testing.T) {
		source := OwnInventorySource{
			Options: OwnInventoryOptions{AppId: 440, ContextId: "2", Language: "english", TradableOnly: true},
			Cookies: cookies,
		}
		request := source.PageRequest("")

		values, err := request.Values()
		require.NoError(t, err)
		assert.Equal(t, "1", values.Get("trading"))
		assert.Equal(t, "english", values.Get("l"))
		assert.Equal(t, "https://steamcommunity.com/my/inventory/json/440/2/", request.Url())

		headers, err := request.Headers()
		require.NoError(t, err)
		assert.Equal(t, "sessionid=abc", headers.Get("Cookie"))
	})

	t.Run("otherwise trading is omitted", func(t *testing.T) {
		source := OwnInventorySource{Options: OwnInventoryOptions{AppId: 440, ContextId: "2"}}
		values, err := source.PageRequest("").Values()
		require.NoError(t, err)
		assert.False(t, values.Has("trading"))
		assert.False(t, values.Has("l"))
	})

	t.Run("cursor becomes start without touching the base query", func(t *testing.T) {
		source := OwnInventorySource{Options: OwnInventoryOptions{AppId: 440, ContextId: "2"}}
		values, err := source.PageRequest("2000").Values()
		require.NoError(t, err)
		assert.Equal(t, "2000", values.Get("start"))
		assert.False(t, source.Query().Has("start"))
	})
}

func TestPartnerInventorySource(t *testing.T) {
	source := PartnerInventorySource{
		Options: PartnerInventoryOptions{
			PartnerSteamId: "76561197960287930",
			AppId:          730,
			ContextId:      "2",
			Language:       "english",
		},
		SessionId: "sess",
		Cookies:   map[string]string{"sessionid": "sess"},
	}

	t.Run("new offer", func(t *testing.T) {
		request := source.PageRequest("")
		assert.Equal(t, "https://steamcommunity.com/tradeoffer/new/partnerinventory/", request.Url())

		values, err := request.Values()
		require.NoError(t, err)
		assert.Equal(t, "sess", values.Get("sessionid"))
		assert.Equal(t, "76561197960287930", values.Get("partner"))
		assert.Equal(t, "730", values.Get("appid"))
		assert.Equal(t, "2", values.Get("contextid"))
		assert.Equal(t, "english", values.Get("l"))
		assert.False(t, values.Has("token"))

		headers, err := request.Headers()
		require.NoError(t, err)
		assert.Equal(t, "https://steamcommunity.com/tradeoffer/new/?partner=22202", headers.Get("Referer"))
	})

	t.Run("existing offer with token", func(t *testing.T) {
		withOffer := source
		withOffer.Options.TradeOfferId = "555"
		withOffer.Options.AccessToken = "tok"

		request := withOffer.PageRequest("")
		assert.Equal(t, "https://steamcommunity.com/tradeoffer/555/partnerinventory/", request.Url())

		values, err := request.Values()
		require.NoError(t, err)
		assert.Equal(t, "tok", values.Get("token"))

		headers, err := request.Headers()
		require.NoError(t, err)
		assert.Equal(t, "https://steamcommunity.com/tradeoffer/555/?partner=22202&token=tok", headers.Get("Referer"))
	})
}

func TestClient_RequiresOptions(t *testing.T) {
	client := NewClient(apitest.NewFakeTransport(), FailOnMissingDescription, 0)

	_, err := client.LoadOwnInventory(context.Background(), nil, OwnInventoryOptions{ContextId: "2"})
	assert.True(t, errors.Is(err, api.ErrMissingRequiredOption))

	_, err = client.LoadOwnInventory(context.Background(), nil, OwnInventoryOptions{AppId: 440})
	assert.True(t, errors.Is(err, api.ErrMissingRequiredOption))

	_, err = client.LoadPartnerInventory(context.Background(), nil, "sess", PartnerInventoryOptions{AppId: 440, ContextId: "2"})
	assert.True(t, errors.Is(err, api.ErrMissingRequiredOption))
}
