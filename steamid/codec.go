package steamid

import (
	"math/big"
	"regexp"
	"strings"
)

// IndividualBase is the SteamID64 of account id 0 in the public individual universe.
const IndividualBase = "76561197960265728"

var (
	individualBase = mustBigInt(IndividualBase)
	legacyPattern  = regexp.MustCompile(`^STEAM_\d+:([01]):(\d+)$`)
	digitsPattern  = regexp.MustCompile(`^\d+$`)
)

func mustBigInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic("steamid: invalid constant " + s)
	}
	return n
}

// parseLegacy splits STEAM_X:Y:Z into Y and Z.
func parseLegacy(id string) (y, z *big.Int, ok bool) {
	match := legacyPattern.FindStringSubmatch(id)
	if match == nil {
		return nil, nil, false
	}

	y, _ = new(big.Int).SetString(match[1], 10)
	z, _ = new(big.Int).SetString(match[2], 10)
	return y, z, true
}

// ToAccountId converts a legacy STEAM_X:Y:Z id or an individual SteamID64 (16 or more digits starting
// with 765) into an account id. Any other input is returned unchanged.
func ToAccountId(id string) string {
	if y, z, ok := parseLegacy(id); ok {
		accountId := new(big.Int).Mul(z, big.NewInt(2))
		return accountId.Add(accountId, y).String()
	}

	if len(id) >= 16 && strings.HasPrefix(id, "765") && digitsPattern.MatchString(id) {
		steamId := mustBigInt(id)
		// ids below the base would come out negative; they are not SteamID64s
		if steamId.Cmp(individualBase) >= 0 {
			return steamId.Sub(steamId, individualBase).String()
		}
	}

	return id
}

// ToSteamId converts a legacy STEAM_X:Y:Z id or an account id into a SteamID64. Numeric ids of 16 digits
// or more are assumed to already be SteamID64s and are returned unchanged.
func ToSteamId(id string) string {
	if y, z, ok := parseLegacy(id); ok {
		steamId := new(big.Int).Mul(z, big.NewInt(2))
		steamId.Add(steamId, individualBase)
		return steamId.Add(steamId, y).String()
	}

	if len(id) < 16 && digitsPattern.MatchString(id) {
		steamId := mustBigInt(id)
		return steamId.Add(steamId, individualBase).String()
	}

	return id
}
