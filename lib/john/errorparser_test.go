package john

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStderr(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		category  ErrorCategory
		retryable bool
	}{
		{"no hashes loaded", "No password hashes loaded (see FAQ)", ErrorCategoryHashFormat, false},
		{"nothing left", "No password hashes left to crack (see FAQ)", ErrorCategoryInfo, false},
		{"unknown format", "Unknown ciphertext format name requested", ErrorCategoryConfiguration, false},
		{"missing file", "fopen: /tmp/x: No such file or directory", ErrorCategoryFileAccess, false},
		{"unknown option", "Unknown option: \"--bogus\"", ErrorCategoryConfiguration, false},
		{"locked session", "Crash recovery file is locked: /w/session.rec", ErrorCategoryRetryable, true},
		{"detected hash type", "Warning: detected hash type \"md5crypt\", but the string is also recognized as \"md5crypt-long\"", ErrorCategoryInfo, true},
		{"loaded", "Loaded 1 password hash (descrypt, traditional crypt(3) [DES 256/256 AVX2])", ErrorCategoryInfo, true},
		{"generic warning", "Warning: OpenMP was disabled", ErrorCategoryWarning, true},
		{"session completed", "Session completed.", ErrorCategoryInfo, true},
		{"error prefix", "Error in rules", ErrorCategoryUnknown, false},
		{"progress", "0g 0:00:00:01 DONE (2024-01-01 00:00) 0g/s 1234p/s", ErrorCategoryUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ClassifyStderr(tt.line)
			assert.Equal(t, tt.category, info.Category)
			assert.Equal(t, tt.retryable, info.Retryable)
			assert.Equal(t, tt.line, info.Message)
		})
	}
}

func TestFirstFailure(t *testing.T) {
	info, ok := FirstFailure("Using default input encoding: UTF-8\n\nNo password hashes loaded (see FAQ)\n")
	assert.True(t, ok)
	assert.Equal(t, ErrorCategoryHashFormat, info.Category)

	_, ok = FirstFailure("Loaded 1 password hash (descrypt)\nWarning: OpenMP was disabled\nSession completed.\n")
	assert.False(t, ok)

	_, ok = FirstFailure("")
	assert.False(t, ok)
}

func TestErrorCategory_String(t *testing.T) {
	assert.Equal(t, "hash_format", ErrorCategoryHashFormat.String())
	assert.Equal(t, "file_access", ErrorCategoryFileAccess.String())
	assert.Equal(t, "configuration", ErrorCategoryConfiguration.String())
	assert.Equal(t, "unknown", ErrorCategory(99).String())
}
