package steamlang

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

type EResult int

// Results Steam reports for trade offer, inventory and confirmation calls.
//
//goland:noinspection GoUnusedConst
const (
	InvalidResult               EResult = 0
	OKResult                    EResult = 1
	FailResult                  EResult = 2
	NoConnectionResult          EResult = 3
	InvalidParamResult          EResult = 8
	FileNotFoundResult          EResult = 9
	BusyResult                  EResult = 10
	InvalidStateResult          EResult = 11
	AccessDeniedResult          EResult = 15
	TimeoutResult               EResult = 16
	BannedResult                EResult = 17
	InvalidSteamIDResult        EResult = 19
	ServiceUnavailableResult    EResult = 20
	NotLoggedOnResult           EResult = 21
	PendingResult               EResult = 22
	InsufficientPrivilegeResult EResult = 24
	LimitExceededResult         EResult = 25
	RevokedResult               EResult = 26
	ExpiredResult               EResult = 27
	AlreadyRedeemedResult       EResult = 28
	DuplicateRequestResult      EResult = 29
	BlockedResult               EResult = 40
	NoMatchResult               EResult = 42
	AccountDisabledResult       EResult = 43
	ServiceReadOnlyResult       EResult = 44
	RateLimitExceededResult     EResult = 84
	PersonaNameChangedResult    EResult = 86
	TwoFactorCodeMismatchResult EResult = 88
	NoMobileDeviceResult        EResult = 92
	TimeNotSyncedResult         EResult = 93
	AccountNotFriendsResult     EResult = 111
	LimitedUserAccountResult    EResult = 112
	CantRemoveItemResult        EResult = 113
)

var resultNames = map[EResult]string{
	InvalidResult:               "Invalid",
	OKResult:                    "OK",
	FailResult:                  "Fail",
	NoConnectionResult:          "NoConnection",
	InvalidParamResult:          "InvalidParam",
	FileNotFoundResult:          "FileNotFound",
	BusyResult:                  "Busy",
	InvalidStateResult:          "InvalidState",
	AccessDeniedResult:          "AccessDenied",
	TimeoutResult:               "Timeout",
	BannedResult:                "Banned",
	InvalidSteamIDResult:        "InvalidSteamID",
	ServiceUnavailableResult:    "ServiceUnavailable",
	NotLoggedOnResult:           "NotLoggedOn",
	PendingResult:               "Pending",
	InsufficientPrivilegeResult: "InsufficientPrivilege",
	LimitExceededResult:         "LimitExceeded",
	RevokedResult:               "Revoked",
	ExpiredResult:               "Expired",
	AlreadyRedeemedResult:       "AlreadyRedeemed",
	DuplicateRequestResult:      "DuplicateRequest",
	BlockedResult:               "Blocked",
	NoMatchResult:               "NoMatch",
	AccountDisabledResult:       "AccountDisabled",
	ServiceReadOnlyResult:       "ServiceReadOnly",
	RateLimitExceededResult:     "RateLimitExceeded",
	PersonaNameChangedResult:    "PersonaNameChanged",
	TwoFactorCodeMismatchResult: "TwoFactorCodeMismatch",
	NoMobileDeviceResult:        "NoMobileDevice",
	TimeNotSyncedResult:         "TimeNotSynced",
	AccountNotFriendsResult:     "AccountNotFriends",
	LimitedUserAccountResult:    "LimitedUserAccount",
	CantRemoveItemResult:        "CantRemoveItem",
}

func (r EResult) String() string {
	if name, ok := resultNames[r]; ok {
		return name
	}
	return "EResult(" + strconv.Itoa(int(r)) + ")"
}

// EResultError is returned when Steam answers a request with a non-OK X-Eresult header.
type EResultError struct {
	Result  EResult
	Message string
}

func (e *EResultError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("steam responded with non-OK Result: %v, %s", e.Result, e.Message)
	}
	return fmt.Sprintf("steam responded with non-OK Result: %v", e.Result)
}

func EnsureEResultResponse(httpResponse *http.Response) error {
	eResults := httpResponse.Header.Values("X-Eresult")
	if len(eResults) == 0 {
		return nil
	}

	eResult := InvalidResult
	for _, result := range eResults {
		if parsedResult, parseErr := strconv.ParseInt(result, 10, 64); parseErr == nil {
			eResult = EResult(parsedResult)
			break
		}
	}

	if eResult == OKResult {
		return nil
	}

	return &EResultError{
		Result:  eResult,
		Message: strings.Join(httpResponse.Header.Values("X-Error_message"), "; "),
	}
}
