// Package totp derives the mobile authenticator keys used to sign confirmation requests.
package totp

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/rotisserie/eris"
)

// maxTagLength is the number of tag bytes that contribute to a confirmation key.
const maxTagLength = 32

type State struct {
	identitySecret []byte
}

func NewState(identitySecret string) (*State, error) {
	identityKey, err := base64.StdEncoding.DecodeString(identitySecret)
	if err != nil {
		return nil, eris.Wrap(err, "error decoding identity secret")
	}

	if len(identityKey) == 0 {
		return nil, eris.New("identity secret is empty")
	}

	return &State{identitySecret: identityKey}, nil
}

// GenerateConfirmationKey signs tag at useTime with the identity secret and returns it base64 encoded.
func (s State) GenerateConfirmationKey(useTime time.Time, tag string) string {
	tagBytes := []byte(tag)
	if len(tagBytes) > maxTagLength {
		tagBytes = tagBytes[:maxTagLength]
	}

	// 8 byte big endian unix time followed by the tag
	buffer := make([]byte, 8+len(tagBytes))
	binary.BigEndian.PutUint64(buffer, uint64(useTime.Unix()))
	copy(buffer[8:], tagBytes)

	hmacHash := hmac.New(sha1.New, s.identitySecret)
	hmacHash.Write(buffer)
	return base64.StdEncoding.EncodeToString(hmacHash.Sum(nil))
}

func GetDeviceId(steamID string) string {
	checksum := sha1.Sum([]byte(steamID))
	checksumBase64 := base64.StdEncoding.EncodeToString(checksum[:])
	return fmt.Sprintf("android:%s", checksumBase64)
}
