package twofactor

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escrow-tf/steamtrade/api/apitest"
)

func TestClient_SteamTime(t *testing.T) {
	transport := apitest.NewFakeTransport(`{"response": {"server_time": "1700000030", "skew_tolerance_seconds": "60"}}`)
	client := NewClient(transport)
	client.now = func() time.Time { return time.Unix(1700000000, 0) }

	steamTime, err := client.SteamTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1700000030), steamTime.Unix())

	// aligned once, the offset is reused
	steamTime, err = client.SteamTime(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1700000030), steamTime.Unix())

	calls := transport.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "https://api.steampowered.com/ITwoFactorService/QueryTime/v0001", calls[0].Url)
	assert.Equal(t, "0", calls[0].Values.Get("steamid"))
}

func TestClient_AlignTimeFailure(t *testing.T) {
	transport := apitest.NewFakeTransport(`not json`)
	client := NewClient(transport)

	_, err := client.SteamTime(context.Background())
	assert.Error(t, err)
}
