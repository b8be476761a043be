package john

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShowOutput(t *testing.T) {
	tests := []struct {
		name     string
		output   string
		cracked  []Credential
		count    int
		left     int
		summary  bool
		rejected int
	}{
		{
			name:    "one cracked",
			output:  "root:root\n\n1 password hash cracked, 0 left\n",
			cracked: []Credential{{User: "root", Password: "root"}},
			count:   1,
			summary: true,
		},
		{
			name:    "none cracked",
			output:  "\n0 password hashes cracked, 1 left\n",
			left:    1,
			summary: true,
		},
		{
			name:    "password containing colon",
			output:  "user:pa:ss\r\n\r\n1 password hash cracked, 0 left\r\n",
			cracked: []Credential{{User: "user", Password: "pa:ss"}},
			count:   1,
			summary: true,
		},
		{
			name:    "bare hash shows a question mark user",
			output:  "?:123456\n\n1 password hash cracked, 0 left\n",
			cracked: []Credential{{User: "?", Password: "123456"}},
			count:   1,
			summary: true,
		},
		{
			name:    "empty password",
			output:  "guest:\n\n1 password hash cracked, 0 left\n",
			cracked: []Credential{{User: "guest", Password: ""}},
			count:   1,
			summary: true,
		},
		{
			name:     "garbage",
			output:   "something went wrong\n",
			rejected: 1,
		},
		{
			name: "empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseShowOutput(tt.output)
			assert.Equal(t, tt.cracked, got.Cracked)
			assert.Equal(t, tt.count, got.Count)
			assert.Equal(t, tt.left, got.Left)
			assert.Equal(t, tt.summary, got.Summary)
			require.Len(t, got.Rejected, tt.rejected)
		})
	}
}
