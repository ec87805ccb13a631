package steamtrade

import (
	"net/url"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escrow-tf/steamtrade/api/apitest"
)

func signedToken(t *testing.T, subject string, expiresAt time.Time) string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})
	signed, err := token.SignedString([]byte("secret"))
	require.NoError(t, err)
	return signed
}

func TestParseLoginToken(t *testing.T) {
	expiresAt := time.Unix(1800000000, 0)

	t.Run("url encoded cookie", func(t *testing.T) {
		cookie := url.QueryEscape("76561197960287930||" + signedToken(t, "76561197960287930", expiresAt))

		token, err := ParseLoginToken(cookie)
		require.NoError(t, err)
		assert.Equal(t, "76561197960287930", token.SteamId.String())
		assert.True(t, token.ExpiresAt.Equal(expiresAt))
		assert.False(t, token.Expired(time.Unix(1700000000, 0)))
		assert.True(t, token.Expired(time.Unix(1900000000, 0)))
	})

	t.Run("subject mismatch", func(t *testing.T) {
		_, err := ParseLoginToken("76561197960287930||" + signedToken(t, "76561197960265729", expiresAt))
		assert.Error(t, err)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := ParseLoginToken("76561197960287930")
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := ParseLoginToken("76561197960287930||not-a-jwt")
		assert.Error(t, err)
	})
}

func TestSetupReadsSteamIdFromLoginCookie(t *testing.T) {
	cookie := "76561197960287930||" + signedToken(t, "76561197960287930", time.Now().Add(time.Hour))

	client := NewTradeClient(apitest.NewFakeTransport())
	require.NoError(t, client.Setup(Credentials{
		SessionId:      "sess",
		Cookies:        map[string]string{SteamLoginSecureCookie: cookie},
		IdentitySecret: identitySecret,
	}))

	steamID, err := client.SteamId()
	require.NoError(t, err)
	assert.Equal(t, "76561197960287930", steamID.String())
	assert.Equal(t, uint32(22202), steamID.AccountId())
}

func TestCookieJarKeepsExplicitSessionCookie(t *testing.T) {
	credentials := Credentials{SessionId: "form", Cookies: map[string]string{SessionIdCookie: "cookie"}}

	jar := credentials.cookieJar()
	assert.Equal(t, "cookie", jar[SessionIdCookie])

	// the caller's map is not modified
	credentials.Cookies["other"] = "1"
	assert.NotContains(t, jar, "other")
}
