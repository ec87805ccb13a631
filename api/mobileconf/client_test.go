package mobileconf

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escrow-tf/steamtrade/api"
	"github.com/escrow-tf/steamtrade/api/apitest"
	"github.com/escrow-tf/steamtrade/steamid"
	"github.com/escrow-tf/steamtrade/totp"
)

type fixedClock time.Time

func (f fixedClock) SteamTime(context.Context) (time.Time, error) {
	return time.Time(f), nil
}

const confirmationList = `{"success": true, "conf": [
	{"id": "100", "type": 2, "creator_id": "5555", "nonce": "n100", "type_name": "Trade Offer", "headline": "partner"},
	{"id": "101", "type": 3, "creator_id": "6666", "nonce": "n101", "type_name": "Market Listing"}
]}`

func newTestClient(t *testing.T, transport api.Transport) *Client {
	//goland:noinspection SpellCheckingInspection
	keys, err := totp.NewState("cnOgv/KdpLoP6Nbh0GMkXkPXALQ=")
	require.NoError(t, err)

	return NewClient(transport, fixedClock(time.Unix(1700000000, 0)), Identity{
		SteamId: steamid.FromAccountId(22202),
		Cookies: map[string]string{"sessionid": "abc"},
		Keys:    keys,
	})
}

func TestClient_GetList(t *testing.T) {
	transport := apitest.NewFakeTransport(confirmationList)

	confirmations, err := newTestClient(t, transport).GetList(context.Background())
	require.NoError(t, err)
	require.Len(t, confirmations, 2)
	assert.Equal(t, TradeConfirmationType, confirmations[0].Type)
	assert.Equal(t, "5555", confirmations[0].CreatorID)

	calls := transport.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodGet, calls[0].Method)
	assert.Equal(t, "https://steamcommunity.com/mobileconf/getlist", calls[0].Url)
	assert.Equal(t, "76561197960287930", calls[0].Values.Get("a"))
	//goland:noinspection SpellCheckingInspection
	assert.Equal(t, "android:bT8Q2WNpoa6XoJTfKLlRkoCZKZU=", calls[0].Values.Get("p"))
	//goland:noinspection SpellCheckingInspection
	assert.Equal(t, "L/ffkbuB9f4s6uhxZ9AxRf3CSS4=", calls[0].Values.Get("k"))
	assert.Equal(t, "1700000000", calls[0].Values.Get("t"))
	assert.Equal(t, "list", calls[0].Values.Get("tag"))
	assert.Equal(t, "sessionid=abc", calls[0].Headers.Get("Cookie"))
}

func TestClient_GetListFailures(t *testing.T) {
	t.Run("needs auth", func(t *testing.T) {
		transport := apitest.NewFakeTransport(`{"success": false, "needsauth": true}`)

		_, err := newTestClient(t, transport).GetList(context.Background())
		assert.True(t, errors.Is(err, ErrNeedsAuth))
	})

	t.Run("unsuccessful", func(t *testing.T) {
		transport := apitest.NewFakeTransport(`{"success": false, "message": "Oops"}`)

		_, err := newTestClient(t, transport).GetList(context.Background())
		assert.True(t, errors.Is(err, ErrConfirmationFailed))
	})

	t.Run("no identity secret", func(t *testing.T) {
		client := NewClient(apitest.NewFakeTransport(), fixedClock(time.Now()), Identity{})

		_, err := client.GetList(context.Background())
		assert.True(t, errors.Is(err, api.ErrMissingRequiredOption))
	})
}

func TestClient_FindByCreatorAndAccept(t *testing.T) {
	transport := apitest.NewFakeTransport(confirmationList, `{"success": true}`)
	client := newTestClient(t, transport)

	confirmation, err := client.FindByCreator(context.Background(), "5555")
	require.NoError(t, err)
	assert.Equal(t, "100", confirmation.ID)

	require.NoError(t, client.Accept(context.Background(), *confirmation))

	calls := transport.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, http.MethodPost, calls[1].Method)
	assert.Equal(t, "https://steamcommunity.com/mobileconf/multiajaxop", calls[1].Url)
	assert.Equal(t, "allow", calls[1].Values.Get("op"))
	assert.Equal(t, "allow", calls[1].Values.Get("tag"))
	assert.Equal(t, []string{"100"}, calls[1].Values["cid[]"])
	assert.Equal(t, []string{"n100"}, calls[1].Values["ck[]"])
}

func TestClient_FindByCreatorMissing(t *testing.T) {
	transport := apitest.NewFakeTransport(confirmationList)

	_, err := newTestClient(t, transport).FindByCreator(context.Background(), "7777")
	assert.True(t, errors.Is(err, ErrConfirmationNotFound))
}

func TestClient_Decline(t *testing.T) {
	transport := apitest.NewFakeTransport(`{"success": false, "message": "expired"}`)

	err := newTestClient(t, transport).Decline(context.Background(), Confirmation{ID: "100", Nonce: "n100"})
	assert.True(t, errors.Is(err, ErrConfirmationFailed))
	assert.Equal(t, "cancel", transport.Calls()[0].Values.Get("op"))
}
