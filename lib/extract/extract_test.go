package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unclesp1d3r/credscan/lib/scheme"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)

	return data
}

func TestExtract_ShadowFile(t *testing.T) {
	got := Collect(readFixture(t, "passwd_test"))
	require.Len(t, got, 4)

	assert.Equal(t, "root", got[0].User)
	assert.Equal(t, "ab6TRGT20sY26", string(got[0].RawHash))
	assert.Equal(t, "daemon", got[1].User)
	assert.Equal(t, "x", string(got[1].RawHash))
	assert.Equal(t, "user", got[2].User)
	assert.Equal(t, "$2b$05$abcdefghijklmnopqrstuuV2lmZSlg12FQgc5cJlKcm9nBvnWgizO", string(got[2].RawHash))
	assert.Equal(t, "user2", got[3].User)
	assert.Equal(t, "$1$SaltSalt$YhgRYajLPrYevs14poKBQ0", string(got[3].RawHash))

	for i, c := range got {
		assert.Equal(t, i, c.Index)
		assert.Equal(t, SourceUnixShadow, c.Source)
		assert.Equal(t, scheme.LabelUnix, c.Label)
	}

	assert.Equal(t, "root:ab6TRGT20sY26:0:0:root:/root:/bin/sh", string(got[0].Line))
}

func TestExtract_PlaceholderAccounts(t *testing.T) {
	tests := []struct {
		line string
		user string
		hash string
	}{
		{"vboxadd:x:999:1::/var/run/vboxadd:/bin/false", "vboxadd", "x"},
		{"daemon:*:18474:0:99999:7:::", "daemon", "*"},
		{"pulse:!:18474:0:99999:7:::", "pulse", "!"},
		{"sshd:!!:18474::::::", "sshd", "!!"},
		{"mongodb::18474:0:99999:7:::", "mongodb", ""},
		{
			"alice:!$6$saltsalt$KMCHqbGvjN8S5XUXEM4vKJLkUSSMXZC2Zq0J1Vv1ZaOQs0xkqN1dXu4iG0uR6YqdVJ6k7sEqM/o7bQmFWAzvH.:18474:0:99999:7:::",
			"alice",
			"!$6$saltsalt$KMCHqbGvjN8S5XUXEM4vKJLkUSSMXZC2Zq0J1Vv1ZaOQs0xkqN1dXu4iG0uR6YqdVJ6k7sEqM/o7bQmFWAzvH.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.user, func(t *testing.T) {
			got := Collect([]byte(tt.line + "\n"))
			require.Len(t, got, 1)

			assert.Equal(t, tt.user, got[0].User)
			assert.Equal(t, tt.hash, string(got[0].RawHash))
			assert.Equal(t, tt.line, string(got[0].Line))
			assert.Equal(t, SourceUnixShadow, got[0].Source)
			assert.Equal(t, scheme.LabelUnix, got[0].Label)

			s, _ := scheme.Classify(got[0].RawHash)
			assert.Equal(t, scheme.Unknown, s)
		})
	}
}

func TestExtract_UserGluedToIdentifierRun(t *testing.T) {
	got := Collect([]byte("aaaaaaaaaaaaaaaaaroot:$1$SaltSalt$YhgRYajLPrYevs14poKBQ0\n"))
	require.Len(t, got, 1)

	assert.Equal(t, "aaaaaaaaaaaaroot", got[0].User)
	assert.Equal(t, 5, got[0].Offset)
	assert.Equal(t, "$1$SaltSalt$YhgRYajLPrYevs14poKBQ0", string(got[0].RawHash))
}

func TestExtract_BinaryEmbedded(t *testing.T) {
	got := Collect(readFixture(t, "passwd.bin"))
	require.Len(t, got, 2)

	assert.Equal(t, "max", got[0].User)
	assert.Equal(t, "$apr1$dragonsa$hyV/QbmNFfCTdGlyEEvA9.", string(got[0].RawHash))
	assert.Equal(t, scheme.LabelHTPasswd, got[0].Label)
	assert.Equal(t, SourceBinaryEmbedded, got[0].Source)

	assert.Equal(t, "johndoe", got[1].User)
	assert.Equal(t, scheme.LabelUnix, got[1].Label)
	assert.Equal(t, SourceBinaryEmbedded, got[1].Source)
	assert.Greater(t, got[1].Offset, got[0].Offset)
}

func TestExtract_Mosquitto(t *testing.T) {
	got := Collect(readFixture(t, "mosquitto_passwd"))
	require.Len(t, got, 2)

	assert.Equal(t, "test", got[0].User)
	assert.Equal(t, SourceMosquitto, got[0].Source)
	assert.Equal(t, scheme.LabelMosquitto, got[0].Label)
	assert.Equal(t, "admin", got[1].User)
	assert.Equal(t, scheme.LabelMosquitto, got[1].Label)

	s, _ := scheme.Classify(got[1].RawHash)
	assert.Equal(t, scheme.MosquittoPBKDF2, s)
}

func TestExtract_HTPasswdVariants(t *testing.T) {
	data := []byte("admin:{SHA}0DPiKuNIrrVmD8IUCuw1hQxNqZc=\r\n" +
		"root:ab6TRGT20sY26\n" +
		"web:$2y$05$abcdefghijklmnopqrstuuV2lmZSlg12FQgc5cJlKcm9nBvnWgizO\n")

	got := Collect(data)
	require.Len(t, got, 3)

	for _, c := range got {
		assert.Equal(t, scheme.LabelHTPasswd, c.Label, c.User)
		assert.Equal(t, SourceHTPasswd, c.Source, c.User)
	}

	assert.Equal(t, "{SHA}0DPiKuNIrrVmD8IUCuw1hQxNqZc=", string(got[0].RawHash))
}

func TestExtract_DESOnlyOnWholeLine(t *testing.T) {
	got := Collect([]byte("garbage root:ab6TRGT20sY26 more garbage\n"))
	assert.Empty(t, got)
}

func TestExtract_SkipsNoise(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"no colon", []byte("just some text\nand more")},
		{"colon run", []byte("abcd::::::\n")},
		{"account without uid", []byte("abc:x::0:a:b:c\n")},
		{"account with text uid", []byte("abc:x:zz:0:a:b:c\n")},
		{"nul bytes", []byte{0, 0, ':', 0, 0xff, 0xfe, '\n', 0}},
		{"invalid utf8", []byte("\xc3\x28root\xa0\xa1:\xe2\x28\xa1")},
		{"user too short", []byte("ab:$1$SaltSalt$YhgRYajLPrYevs14poKBQ0\n")},
		{"truncated apr1", []byte("max:$apr1$dragonsa$hyV/Qbm\n")},
		{"htpasswd with extra field", []byte("max:$apr1$dragonsa$hyV/QbmNFfCTdGlyEEvA9.:extra\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assert.Empty(t, Collect(tt.data))
			})
		})
	}
}

func TestExtract_MosquittoPaddingNotCrypt(t *testing.T) {
	hash := "$6$Ph+uRn1vmQ+pA7Ka$fcn9/Ln3W6c6oT3o8bWoLPrmTUs+NowcKYa52WFVP5qU5jzadqwSq8F+Q4AAr2qOC+Sk5LlHmisri4Eqx7/uDg=="

	got := Collect([]byte("user:" + hash))
	require.Len(t, got, 1)
	assert.Equal(t, scheme.LabelMosquitto, got[0].Label)
	assert.Equal(t, hash, string(got[0].RawHash))
}

func TestExtract_StopsWhenYieldReturnsFalse(t *testing.T) {
	seen := 0
	for range Extract(readFixture(t, "passwd_test")) {
		seen++

		break
	}

	assert.Equal(t, 1, seen)
}

func TestExtract_ReturnsCopies(t *testing.T) {
	data := []byte("user2:$1$SaltSalt$YhgRYajLPrYevs14poKBQ0\n")

	got := Collect(data)
	require.Len(t, got, 1)

	got[0].RawHash[0] = 'X'
	assert.Equal(t, byte('$'), data[6])
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "unix_shadow", SourceUnixShadow.String())
	assert.Equal(t, "binary_embedded", SourceBinaryEmbedded.String())
	assert.Equal(t, "unknown", Source(42).String())
}
