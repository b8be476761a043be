package testhelpers

// Known hashes with their plaintexts, generated with crypt(3) and openssl.
const (
	// DESRoot is descrypt of "root".
	DESRoot = "ab6TRGT20sY26"
	// MD5CryptSecret is md5crypt of "secret".
	MD5CryptSecret = "$1$SaltSalt$YhgRYajLPrYevs14poKBQ0"
	// BcryptPassword is bcrypt of "1234".
	BcryptPassword = "$2b$05$abcdefghijklmnopqrstuuV2lmZSlg12FQgc5cJlKcm9nBvnWgizO"
	// SHA256CryptSecret is sha256crypt of "password".
	SHA256CryptSecret = "$5$saltsalt$gOjOtoMpVhru2uyjeJSEc/JaLQWOXMNmlOnj6T4AtC."
	// APR1Dragon is the htpasswd apr1 hash of "dragon".
	APR1Dragon = "$apr1$dragonsa$hyV/QbmNFfCTdGlyEEvA9."
	// SHA1Admin is the htpasswd {SHA} hash of "admin".
	SHA1Admin = "{SHA}0DPiKuNIrrVmD8IUCuw1hQxNqZc="
	// SHA512Crypt123456 is sha512crypt of "123456".
	SHA512Crypt123456 = "$6$saltsaltsalt$HcHgzC17P7af7CX3BSpch0BqJeNu2kLjQOuTuCuNChvBLQI3RYIPcxWMGRIgc1MBYK5Ar.huI4HQJdpDuzpI11" //nolint:lll

	// MosquittoSHA512 is sha512("123456" + salt) with salt bytes 01..0c, in mosquitto 1.x notation.
	MosquittoSHA512 = "$6$AQIDBAUGBwgJCgsM$ehWtuLFM4g5uuQTt1kNmfJbg/FXPHdcvdGA27LBapAukm7c4O7KGKWBs9EyokMwod8Ry750UiROEh9JoZ0cu5g==" //nolint:lll
	// MosquittoPBKDF2 is PBKDF2-HMAC-SHA512("123456", salt 01..0c, 101 iterations) in mosquitto 2.x notation.
	MosquittoPBKDF2 = "$7$101$AQIDBAUGBwgJCgsM$qKmA+pMVVJW7mM4Ehi/jKcaGn5JHMJzUt8ETpvWGbULvFN5L7s/4cyAp6vxtcdDTDMvhCGJ1r6DNHWz5nHMARg==" //nolint:lll
	// Dynamic82 is sha512("123456" + bytes 01..06) in john's dynamic_82 notation.
	Dynamic82 = "$dynamic_82$2c93b2efec757302a527be320b005a935567f370f268a13936fa42ef331cc7036ec75a65f8112ce511ff6088c92a6fe1384fbd0f70a9bc7ac41aa6103384aa8c$HEX$010203040506" //nolint:lll
	// BrokenMosquitto has mosquitto markers but no plaintext that produces it.
	BrokenMosquitto = "$6$Ph+uRn1vmQ+pA7Ka$fcn9/Ln3W6c6oT3o8bWoLPrmTUs+NowcKYa52WFVP5qU5jzadqwSq8F+Q4AAr2qOC+Sk5LlHmisri4Eqx7/uDg==" //nolint:lll
)

// ShadowFile is a passwd style file with three crackable accounts and one placeholder account.
const ShadowFile = "root:" + DESRoot + ":0:0:root:/root:/bin/sh\n" +
	"daemon:x:1:1:daemon:/usr/sbin:/usr/sbin/nologin\n" +
	"user:" + BcryptPassword + ":1000:1000:user,,,:/home/user:/bin/bash\n" +
	"user2:" + MD5CryptSecret + ":1001:1001::/home/user2:/bin/sh\n"

// ShadowFileCredentials lets the fake john crack every hashed account in ShadowFile.
func ShadowFileCredentials() []FakeCredential {
	return []FakeCredential{
		{Hash: DESRoot, Password: "root", Mode: FakeWordlist},
		{Hash: BcryptPassword, Password: "1234", Mode: FakeWordlist},
		{Hash: MD5CryptSecret, Password: "secret", Mode: FakeIncremental},
	}
}
