package steamtrade

import (
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rotisserie/eris"

	"github.com/escrow-tf/steamtrade/api"
	"github.com/escrow-tf/steamtrade/steamid"
)

const (
	SessionIdCookie        = "sessionid"
	SteamLoginSecureCookie = "steamLoginSecure"
)

// Credentials authenticate every call a TradeClient makes. SessionId, Cookies and ApiKey come from an
// existing web session; IdentitySecret is only needed to confirm offers.
type Credentials struct {
	SessionId      string
	Cookies        map[string]string
	ApiKey         string
	IdentitySecret string
	// SteamId is the account's own 64 bit id. When empty it is read from the steamLoginSecure cookie.
	SteamId string
}

// LoginToken is what a steamLoginSecure cookie says about the session it belongs to.
type LoginToken struct {
	SteamId   steamid.SteamID
	ExpiresAt time.Time
}

func (t LoginToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// ParseLoginToken decodes a steamLoginSecure cookie value of the form <steamid>||<jwt>. The token
// signature is not verified.
func ParseLoginToken(value string) (LoginToken, error) {
	unescaped, err := url.QueryUnescape(value)
	if err != nil {
		return LoginToken{}, eris.Wrap(err, "steamLoginSecure is not url encoded")
	}

	steamIdPart, tokenPart, found := strings.Cut(unescaped, "||")
	if !found {
		return LoginToken{}, eris.New("steamLoginSecure is missing its access token")
	}

	steamID, err := steamid.ParseSteamID64(steamIdPart)
	if err != nil {
		return LoginToken{}, err
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tokenPart, &claims); err != nil {
		return LoginToken{}, eris.Wrap(err, "steamLoginSecure access token was invalid JWT")
	}

	if claims.Subject != "" && claims.Subject != steamID.String() {
		return LoginToken{}, eris.Errorf("access token subject %s does not match %s", claims.Subject, steamID)
	}

	token := LoginToken{SteamId: steamID}
	if claims.ExpiresAt != nil {
		token.ExpiresAt = claims.ExpiresAt.Time
	}
	return token, nil
}

func (c Credentials) validate() error {
	if c.SessionId == "" {
		return api.MissingOption("sessionId")
	}
	return nil
}

// cookieJar copies the credential cookies, adding the sessionid cookie Steam checks the form value against.
func (c Credentials) cookieJar() map[string]string {
	cookies := make(map[string]string, len(c.Cookies)+1)
	for name, value := range c.Cookies {
		cookies[name] = value
	}
	if _, ok := cookies[SessionIdCookie]; !ok {
		cookies[SessionIdCookie] = c.SessionId
	}
	return cookies
}
