package steamid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptySteamID64(t *testing.T) {
	_, err := ParseSteamID64("")
	assert.ErrorIs(t, err, ErrorEmpty)
}

func TestNoneNumberSteamID64(t *testing.T) {
	_, err := ParseSteamID64("not a number")
	assert.Error(t, err)
}

func TestValidSteamID64(t *testing.T) {
	steamID, err := ParseSteamID64("76561197960287930")
	require.NoError(t, err)

	assert.True(t, steamID.IsValid())
	assert.True(t, steamID.IsValidIndividual())
	assert.Equal(t, uint32(22202), steamID.AccountId())
	assert.Equal(t, "76561197960287930", steamID.String())
}

func TestFromAccountId(t *testing.T) {
	steamID := FromAccountId(22202)
	assert.True(t, steamID.IsValidIndividual())
	assert.Equal(t, "76561197960287930", steamID.String())
}
