// Package scheme classifies credential hashes into the closed set of dialects credscan knows how to crack.
package scheme

// Scheme identifies a hash dialect.
type Scheme int

const (
	// Unknown is the terminal classification for hashes no rule matches.
	Unknown Scheme = iota
	// DESCrypt is the traditional 13 character crypt(3) DES hash.
	DESCrypt
	// MD5Crypt is the FreeBSD MD5 crypt ($1$).
	MD5Crypt
	// APR1MD5 is Apache's MD5 crypt variant ($apr1$).
	APR1MD5
	// SHA1 is the unsalted LDAP/htpasswd {SHA} hash.
	SHA1
	// SHA256Crypt is the glibc SHA-256 crypt ($5$).
	SHA256Crypt
	// SHA512Crypt is the glibc SHA-512 crypt ($6$).
	SHA512Crypt
	// Bcrypt is Blowfish crypt ($2a$, $2b$, $2x$, $2y$).
	Bcrypt
	// Yescrypt is the libxcrypt yescrypt hash ($y$).
	Yescrypt
	// MosquittoSHA512 is the mosquitto 1.x password file format: $6$<base64 salt>$<base64 sha512(password+salt)>.
	MosquittoSHA512
	// MosquittoPBKDF2 is the mosquitto 2.x password file format: $7$<iterations>$<base64 salt>$<base64 pbkdf2-sha512>.
	MosquittoPBKDF2
	// HTPasswdGeneric is the salted {SSHA} hash some htpasswd generators emit.
	HTPasswdGeneric
	// Dynamic82 is a hash already rewritten into john's dynamic_82 notation.
	Dynamic82
	// PBKDF2SHA512 is a hash already rewritten into john's PBKDF2-HMAC-SHA512 notation.
	PBKDF2SHA512
)

// String returns the string representation of a Scheme.
func (s Scheme) String() string {
	switch s {
	case Unknown:
		return "unknown"
	case DESCrypt:
		return "des_crypt"
	case MD5Crypt:
		return "md5_crypt"
	case APR1MD5:
		return "apr1_md5"
	case SHA1:
		return "sha1"
	case SHA256Crypt:
		return "sha256_crypt"
	case SHA512Crypt:
		return "sha512_crypt"
	case Bcrypt:
		return "bcrypt"
	case Yescrypt:
		return "yescrypt"
	case MosquittoSHA512:
		return "mosquitto_sha512"
	case MosquittoPBKDF2:
		return "mosquitto_pbkdf"
	case HTPasswdGeneric:
		return "htpasswd_generic"
	case Dynamic82:
		return "dynamic_82"
	case PBKDF2SHA512:
		return "pbkdf2_sha512"
	default:
		return "unknown"
	}
}

// Display labels used in finding keys.
const (
	LabelUnix      = "unix"
	LabelHTPasswd  = "htpasswd"
	LabelMosquitto = "mosquitto"
)

// Label returns the coarse display label for a scheme. Several schemes share a label:
// every crypt(3) family hash displays as unix.
func Label(s Scheme) string {
	switch s {
	case APR1MD5, SHA1, HTPasswdGeneric:
		return LabelHTPasswd
	case MosquittoSHA512, MosquittoPBKDF2, Dynamic82, PBKDF2SHA512:
		return LabelMosquitto
	default:
		return LabelUnix
	}
}
