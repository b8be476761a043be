package native

import (
	"bytes"
	"crypto/sha1" //nolint:gosec // {SHA} and {SSHA} are SHA-1 by definition
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"

	"github.com/GehirnInc/crypt"
	"github.com/GehirnInc/crypt/apr1_crypt"
	"github.com/GehirnInc/crypt/md5_crypt"
	"github.com/GehirnInc/crypt/sha256_crypt"
	"github.com/GehirnInc/crypt/sha512_crypt"
	"github.com/unclesp1d3r/credscan/lib/scheme"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// errNoVerifier is returned for schemes the native engine cannot compute.
var errNoVerifier = errors.New("no native verifier for scheme")

// verifier reports whether password produces the hash it was built for.
type verifier func(password []byte) bool

// newVerifier parses hash once and returns a verifier for it.
func newVerifier(s scheme.Scheme, hash string) (verifier, error) {
	switch s {
	case scheme.MD5Crypt:
		return crypterVerifier(md5_crypt.New(), hash), nil
	case scheme.APR1MD5:
		return crypterVerifier(apr1_crypt.New(), hash), nil
	case scheme.SHA256Crypt:
		return crypterVerifier(sha256_crypt.New(), hash), nil
	case scheme.SHA512Crypt:
		return crypterVerifier(sha512_crypt.New(), hash), nil
	case scheme.Bcrypt:
		return func(pw []byte) bool {
			return bcrypt.CompareHashAndPassword([]byte(hash), pw) == nil
		}, nil
	case scheme.SHA1:
		return sha1Verifier(hash)
	case scheme.HTPasswdGeneric:
		return sshaVerifier(hash)
	case scheme.Dynamic82:
		return dynamic82Verifier(hash)
	case scheme.MosquittoSHA512:
		encoded, err := scheme.EncodingMosquittoSHA512.Apply([]byte(hash))
		if err != nil {
			return nil, err
		}

		return dynamic82Verifier(string(encoded))
	case scheme.PBKDF2SHA512:
		return pbkdf2Verifier(hash)
	case scheme.MosquittoPBKDF2:
		encoded, err := scheme.EncodingMosquittoPBKDF2.Apply([]byte(hash))
		if err != nil {
			return nil, err
		}

		return pbkdf2Verifier(string(encoded))
	default:
		return nil, errNoVerifier
	}
}

func crypterVerifier(c crypt.Crypter, hash string) verifier {
	return func(pw []byte) bool {
		return c.Verify(hash, pw) == nil
	}
}

func sha1Verifier(hash string) (verifier, error) {
	want, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(hash, "{SHA}"))
	if err != nil || len(want) != sha1.Size {
		return nil, scheme.ErrMalformedHash
	}

	return func(pw []byte) bool {
		sum := sha1.Sum(pw) //nolint:gosec // {SHA}

		return subtle.ConstantTimeCompare(sum[:], want) == 1
	}, nil
}

func sshaVerifier(hash string) (verifier, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(hash, "{SSHA}"))
	if err != nil || len(raw) <= sha1.Size {
		return nil, scheme.ErrMalformedHash
	}

	want, salt := raw[:sha1.Size], raw[sha1.Size:]

	return func(pw []byte) bool {
		h := sha1.New() //nolint:gosec // {SSHA}
		h.Write(pw)
		h.Write(salt)

		return subtle.ConstantTimeCompare(h.Sum(nil), want) == 1
	}, nil
}

// dynamic82Verifier handles "$dynamic_82$<hex sha512(pass.salt)>$HEX$<hex salt>".
func dynamic82Verifier(hash string) (verifier, error) {
	digestHex, saltField, ok := strings.Cut(strings.TrimPrefix(hash, "$dynamic_82$"), "$")
	if !ok {
		return nil, scheme.ErrMalformedHash
	}

	want, err := hex.DecodeString(digestHex)
	if err != nil || len(want) != sha512.Size {
		return nil, scheme.ErrMalformedHash
	}

	var salt []byte
	if saltHex, isHex := strings.CutPrefix(saltField, "HEX$"); isHex {
		if salt, err = hex.DecodeString(saltHex); err != nil {
			return nil, scheme.ErrMalformedHash
		}
	} else {
		salt = []byte(saltField)
	}

	return func(pw []byte) bool {
		sum := sha512.Sum512(append(bytes.Clone(pw), salt...))

		return subtle.ConstantTimeCompare(sum[:], want) == 1
	}, nil
}

// pbkdf2Verifier handles "$pbkdf2-hmac-sha512$<iterations>.<hex salt>.<hex digest>".
func pbkdf2Verifier(hash string) (verifier, error) {
	parts := strings.Split(strings.TrimPrefix(hash, "$pbkdf2-hmac-sha512$"), ".")
	if len(parts) != 3 { //nolint:mnd // iterations, salt, digest
		return nil, scheme.ErrMalformedHash
	}

	iterations, err := strconv.Atoi(parts[0])
	if err != nil || iterations < 1 {
		return nil, scheme.ErrMalformedHash
	}

	salt, err := hex.DecodeString(parts[1])
	if err != nil {
		return nil, scheme.ErrMalformedHash
	}

	want, err := hex.DecodeString(parts[2])
	if err != nil || len(want) == 0 {
		return nil, scheme.ErrMalformedHash
	}

	return func(pw []byte) bool {
		got := pbkdf2.Key(pw, salt, iterations, len(want), sha512.New)

		return subtle.ConstantTimeCompare(got, want) == 1
	}, nil
}
