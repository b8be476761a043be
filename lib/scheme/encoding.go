package scheme

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedHash is returned when a hash carries the right markers but its payload cannot be decoded.
var ErrMalformedHash = errors.New("malformed hash encoding")

// Encoding is a transform applied to a raw hash before it is written to the credential file.
type Encoding int

const (
	// EncodingNone passes the hash through unchanged.
	EncodingNone Encoding = iota
	// EncodingMosquittoSHA512 rewrites $6$<b64 salt>$<b64 digest> as $dynamic_82$<hex digest>$HEX$<hex salt>.
	EncodingMosquittoSHA512
	// EncodingMosquittoPBKDF2 rewrites $7$<iter>$<b64 salt>$<b64 digest> as $pbkdf2-hmac-sha512$<iter>.<hex salt>.<hex digest>.
	EncodingMosquittoPBKDF2
)

// Apply returns the transformed hash. The input is never modified.
func (e Encoding) Apply(rawHash []byte) ([]byte, error) {
	switch e {
	case EncodingMosquittoSHA512:
		salt, digest, err := decodeMosquittoSHA512(string(rawHash))
		if err != nil {
			return nil, err
		}

		return []byte("$dynamic_82$" + hex.EncodeToString(digest) + "$HEX$" + hex.EncodeToString(salt)), nil
	case EncodingMosquittoPBKDF2:
		iterations, salt, digest, err := decodeMosquittoPBKDF2(string(rawHash))
		if err != nil {
			return nil, err
		}

		return []byte(fmt.Sprintf("$pbkdf2-hmac-sha512$%d.%s.%s",
			iterations, hex.EncodeToString(salt), hex.EncodeToString(digest))), nil
	default:
		out := make([]byte, len(rawHash))
		copy(out, rawHash)

		return out, nil
	}
}

func decodeMosquittoSHA512(hash string) ([]byte, []byte, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 4 || parts[1] != "6" { //nolint:mnd // "", "6", salt, digest
		return nil, nil, fmt.Errorf("%w: expected $6$salt$digest", ErrMalformedHash)
	}

	salt, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}

	digest, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return nil, nil, fmt.Errorf("%w: digest: %w", ErrMalformedHash, err)
	}

	return salt, digest, nil
}

func decodeMosquittoPBKDF2(hash string) (int, []byte, []byte, error) {
	parts := strings.Split(hash, "$")
	if len(parts) != 5 || parts[1] != "7" { //nolint:mnd // "", "7", iterations, salt, digest
		return 0, nil, nil, fmt.Errorf("%w: expected $7$iterations$salt$digest", ErrMalformedHash)
	}

	iterations, err := strconv.Atoi(parts[2])
	if err != nil || iterations <= 0 {
		return 0, nil, nil, fmt.Errorf("%w: bad iteration count %q", ErrMalformedHash, parts[2])
	}

	salt, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return 0, nil, nil, fmt.Errorf("%w: salt: %w", ErrMalformedHash, err)
	}

	digest, err := base64.StdEncoding.DecodeString(parts[4])
	if err != nil {
		return 0, nil, nil, fmt.Errorf("%w: digest: %w", ErrMalformedHash, err)
	}

	return iterations, salt, digest, nil
}
