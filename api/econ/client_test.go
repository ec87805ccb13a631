package econ

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escrow-tf/steamtrade/api"
	"github.com/escrow-tf/steamtrade/api/apitest"
)

func TestClient_GetTradeOffers(t *testing.T) {
	transport := apitest.NewFakeTransport(`{"response": {
		"trade_offers_sent": [{"tradeofferid": "1", "accountid_other": 22202, "trade_offer_state": 2}],
		"trade_offers_received": [
			{"tradeofferid": "2", "accountid_other": 1, "trade_offer_state": 9,
			 "items_to_receive": [{"appid": 440, "contextid": "2", "assetid": "77", "classid": "100", "instanceid": "0", "amount": "1"}]}
		],
		"descriptions": [{"appid": 440, "classid": "100", "instanceid": "0", "name": "Key", "tradable": true}]
	}}`)

	offers, err := NewClient(transport).GetTradeOffers(context.Background(), "KEY", ListOptions{
		GetSentOffers:     true,
		GetReceivedOffers: true,
		GetDescriptions:   true,
		ActiveOnly:        true,
		Language:          "english",
	})
	require.NoError(t, err)

	require.Len(t, offers.Sent, 1)
	require.Len(t, offers.Received, 1)
	assert.Equal(t, "76561197960287930", offers.Sent[0].OtherSteamId)
	assert.Equal(t, "76561197960265729", offers.Received[0].OtherSteamId)
	assert.Equal(t, CreatedNeedsConfirmationOfferState, offers.Received[0].State)
	assert.Equal(t, "77", offers.Received[0].ToReceive[0].AssetId)
	require.Len(t, offers.Descriptions, 1)
	assert.Equal(t, "Key", offers.Descriptions[0].Name)

	calls := transport.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "https://api.steampowered.com/IEconService/GetTradeOffers/v1/", calls[0].Url)
	assert.Equal(t, "KEY", calls[0].Values.Get("key"))
	assert.Equal(t, "1", calls[0].Values.Get("get_sent_offers"))
	assert.Equal(t, "1", calls[0].Values.Get("active_only"))
	assert.False(t, calls[0].Values.Has("historical_only"))
	assert.Equal(t, "english", calls[0].Values.Get("language"))
}

func TestClient_GetTradeOffer(t *testing.T) {
	t.Run("attaches the partner steam id", func(t *testing.T) {
		transport := apitest.NewFakeTransport(`{"response": {"offer": {"tradeofferid": "5", "accountid_other": 22202}}}`)

		detail, err := NewClient(transport).GetTradeOffer(context.Background(), "KEY", "5", "")
		require.NoError(t, err)
		assert.Equal(t, "76561197960287930", detail.Offer.OtherSteamId)
		assert.Equal(t, "5", transport.Calls()[0].Values.Get("tradeofferid"))
	})

	t.Run("absent partner leaves the steam id empty", func(t *testing.T) {
		transport := apitest.NewFakeTransport(`{"response": {"offer": {"tradeofferid": "5"}}}`)

		detail, err := NewClient(transport).GetTradeOffer(context.Background(), "KEY", "5", "")
		require.NoError(t, err)
		assert.Empty(t, detail.Offer.OtherSteamId)
	})

	t.Run("missing offer is invalid", func(t *testing.T) {
		transport := apitest.NewFakeTransport(`{"response": {}}`)

		_, err := NewClient(transport).GetTradeOffer(context.Background(), "KEY", "5", "")
		assert.True(t, errors.Is(err, api.ErrInvalidResponse))
	})

	t.Run("requires an id", func(t *testing.T) {
		_, err := NewClient(apitest.NewFakeTransport()).GetTradeOffer(context.Background(), "KEY", "", "")
		assert.True(t, errors.Is(err, api.ErrMissingRequiredOption))
	})
}

func TestClient_DeclineAndCancel(t *testing.T) {
	transport := apitest.NewFakeTransport(`{"response": {}}`, `{"response": {}}`)
	client := NewClient(transport)

	require.NoError(t, client.DeclineTradeOffer(context.Background(), "KEY", "10"))
	require.NoError(t, client.CancelTradeOffer(context.Background(), "KEY", "11"))

	calls := transport.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "https://api.steampowered.com/IEconService/DeclineTradeOffer/v1/", calls[0].Url)
	assert.Equal(t, "10", calls[0].Values.Get("tradeofferid"))
	assert.Equal(t, "KEY", calls[0].Values.Get("key"))
	assert.Equal(t, "https://api.steampowered.com/IEconService/CancelTradeOffer/v1/", calls[1].Url)
	assert.Equal(t, "11", calls[1].Values.Get("tradeofferid"))

	err := client.CancelTradeOffer(context.Background(), "", "11")
	assert.True(t, errors.Is(err, api.ErrMissingRequiredOption))
}
