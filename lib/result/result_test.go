package result_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unclesp1d3r/credscan/lib/crack"
	"github.com/unclesp1d3r/credscan/lib/extract"
	"github.com/unclesp1d3r/credscan/lib/result"
	"github.com/unclesp1d3r/credscan/lib/scheme"
	"gopkg.in/yaml.v3"
)

func cracked(index int, user, label, hash, password string) crack.Result {
	return crack.Result{
		Candidate: extract.Candidate{
			User:    user,
			RawHash: []byte(hash),
			Line:    []byte(user + ":" + hash),
			Label:   label,
			Index:   index,
		},
		Entry: crack.Entry{Password: password, Cracked: true},
	}
}

func failed(index int, user, label, hash, reason string) crack.Result {
	r := cracked(index, user, label, hash, "")
	r.Entry = crack.Entry{Error: reason}

	return r
}

func ptr(s string) *string { return &s }

func TestAggregate(t *testing.T) {
	results := []crack.Result{
		cracked(0, "root", "unix", "ab6TRGT20sY26", "root"),
		failed(1, "daemon", "unix", "$6$x$y", crack.ReasonNotFound),
		cracked(2, "max", "htpasswd", "$apr1$dragonsa$hyV/QbmNFfCTdGlyEEvA9.", "dragon"),
	}

	got := result.Aggregate(results)

	want := &result.AnalysisResult{
		Findings: map[string]result.Finding{
			"root:unix": {
				Type: "unix", PasswordHash: "ab6TRGT20sY26", Password: ptr("root"),
				Entry: "root:ab6TRGT20sY26", Cracked: true,
			},
			"daemon:unix": {
				Type: "unix", PasswordHash: "$6$x$y", Entry: "daemon:$6$x$y", Error: crack.ReasonNotFound,
			},
			"max:htpasswd": {
				Type: "htpasswd", PasswordHash: "$apr1$dragonsa$hyV/QbmNFfCTdGlyEEvA9.", Password: ptr("dragon"),
				Entry: "max:$apr1$dragonsa$hyV/QbmNFfCTdGlyEEvA9.", Cracked: true,
			},
		},
		Summary: []string{"root:unix", "daemon:unix", "max:htpasswd"},
		Tags: map[string]result.Tag{
			"root_root":  {Value: "Password: root:root", Color: "danger", Propagate: true},
			"max_dragon": {Value: "Password: max:dragon", Color: "danger", Propagate: true},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Aggregate() mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, 3, got.Len())
	assert.Equal(t, 2, got.Cracked())
}

func TestAggregate_FirstSeenWins(t *testing.T) {
	// Completion order differs from extraction order.
	results := []crack.Result{
		cracked(5, "admin", "unix", "$1$second$hash", "other"),
		failed(2, "admin", "unix", "$1$first$hash", crack.ReasonNotFound),
		cracked(3, "admin", "htpasswd", "{SHA}0DPiKuNIrrVmD8IUCuw1hQxNqZc=", "admin"),
	}

	got := result.Aggregate(results)

	assert.Equal(t, []string{"admin:unix", "admin:htpasswd"}, got.Summary)
	assert.Equal(t, "$1$first$hash", got.Findings["admin:unix"].PasswordHash)
	assert.Nil(t, got.Findings["admin:unix"].Password)
	assert.NotContains(t, got.Tags, "admin_other")
	assert.Contains(t, got.Tags, "admin_admin")
}

func TestAggregate_Idempotent(t *testing.T) {
	results := []crack.Result{
		cracked(1, "user", "unix", "$2b$05$abc", "1234"),
		cracked(0, "root", "unix", "ab6TRGT20sY26", "root"),
		failed(2, "user2", "unix", "$1$a$b", crack.ReasonUnsupported),
	}

	first := result.Aggregate(results)
	second := result.Aggregate(results)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("Aggregate() not idempotent (-first +second):\n%s", diff)
	}

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))
	assert.Equal(t, 1, results[0].Candidate.Index, "input order is left alone")
}

func TestAggregate_Empty(t *testing.T) {
	got := result.Aggregate(nil)

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{"summary": [], "tags": {}}`, string(data))
}

func TestAggregate_SchemeLabelFallback(t *testing.T) {
	r := failed(0, "svc", "", "$7$101$salt$digest", "hash type is not supported")
	r.Scheme = scheme.MosquittoPBKDF2

	got := result.Aggregate([]crack.Result{r})

	assert.Equal(t, []string{"svc:mosquitto"}, got.Summary)
	assert.Equal(t, "mosquitto", got.Findings["svc:mosquitto"].Type)
}

func TestAnalysisResult_JSON(t *testing.T) {
	got := result.Aggregate([]crack.Result{
		cracked(0, "root", "unix", "ab6TRGT20sY26", "root"),
		failed(1, "bin", "unix", "\x00bad\xff", crack.ReasonNotFound),
	})

	data, err := json.Marshal(got)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"root:unix": {
			"type": "unix",
			"password-hash": "ab6TRGT20sY26",
			"password": "root",
			"entry": "root:ab6TRGT20sY26",
			"cracked": true
		},
		"bin:unix": {
			"type": "unix",
			"password-hash": "\\x00bad\\xff",
			"entry": "bin:\\x00bad\\xff",
			"cracked": false,
			"ERROR": "no password found"
		},
		"summary": ["root:unix", "bin:unix"],
		"tags": {
			"root_root": {"value": "Password: root:root", "color": "danger", "propagate": true}
		}
	}`, string(data))

	var decoded result.AnalysisResult
	require.NoError(t, json.Unmarshal(data, &decoded))

	if diff := cmp.Diff(got, &decoded); diff != "" {
		t.Errorf("decoded result mismatch (-want +got):\n%s", diff)
	}
}

func TestAnalysisResult_YAML(t *testing.T) {
	got := result.Aggregate([]crack.Result{
		cracked(0, "user", "unix", "$2b$05$abc", "1234"),
	})

	data, err := got.YAML()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, []any{"user:unix"}, decoded["summary"])

	finding, ok := decoded["user:unix"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "1234", finding["password"])
	assert.Equal(t, "$2b$05$abc", finding["password-hash"])

	tags, ok := decoded["tags"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, tags, "user_1234")
}

func TestAnalysisResult_EmptyPasswordIsKept(t *testing.T) {
	got := result.Aggregate([]crack.Result{cracked(0, "guest", "unix", "$1$a$b", "")})

	data, err := json.Marshal(got)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"password":""`)
	assert.Contains(t, got.Tags, "guest_")
}
