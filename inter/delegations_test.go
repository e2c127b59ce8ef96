// Unit tests for the Delegations union: the three JSON shapes registration
// dumps use, and the structural validation.
package inter

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rony4d/go-ballot/inter/votepk"
)

const (
	keyAHex = "0x1111111111111111111111111111111111111111111111111111111111111111"
	keyBHex = "0x2222222222222222222222222222222222222222222222222222222222222222"
	keyCHex = "0x3333333333333333333333333333333333333333333333333333333333333333"
)

func mustKey(t *testing.T, s string) votepk.PubKey {
	t.Helper()
	pk, err := votepk.FromString(s)
	require.NoError(t, err)
	return pk
}

// TestUnmarshalLegacy verifies a bare key string decodes as a legacy
// delegation.
func TestUnmarshalLegacy(t *testing.T) {
	require := require.New(t)

	var d Delegations
	err := json.Unmarshal([]byte(`"`+keyAHex+`"`), &d)
	require.NoError(err)
	require.Equal(LegacyDelegations, d.Kind)
	require.Equal(mustKey(t, keyAHex), d.Legacy)
	require.Empty(d.Weighted)
}

// TestUnmarshalPairs verifies the [key, weight] array form keeps its input
// order.
func TestUnmarshalPairs(t *testing.T) {
	require := require.New(t)

	raw := `[["` + keyBHex + `", 3], ["` + keyAHex + `", 1]]`
	var d Delegations
	err := json.Unmarshal([]byte(raw), &d)
	require.NoError(err)
	require.Equal(WeightedDelegations, d.Kind)
	require.Equal([]Delegation{
		{VotingKey: mustKey(t, keyBHex), Weight: 3},
		{VotingKey: mustKey(t, keyAHex), Weight: 1},
	}, d.Weighted)
}

// TestUnmarshalObject verifies the {key: weight} form is canonicalized by
// ascending key bytes regardless of the order the object lists them in.
func TestUnmarshalObject(t *testing.T) {
	require := require.New(t)

	raw := `{"` + keyCHex + `": 5, "` + keyAHex + `": 1, "` + keyBHex + `": 3}`
	var d Delegations
	err := json.Unmarshal([]byte(raw), &d)
	require.NoError(err)
	require.Equal(WeightedDelegations, d.Kind)
	require.Equal([]Delegation{
		{VotingKey: mustKey(t, keyAHex), Weight: 1},
		{VotingKey: mustKey(t, keyBHex), Weight: 3},
		{VotingKey: mustKey(t, keyCHex), Weight: 5},
	}, d.Weighted)
}

// TestUnmarshalErrors walks the malformed inputs the decoder must reject.
func TestUnmarshalErrors(t *testing.T) {
	require := require.New(t)

	for name, raw := range map[string]string{
		"empty input":       ``,
		"unexpected format": `5`,
		"bad key string":    `"0xzz"`,
		"short pair":        `[["` + keyAHex + `"]]`,
		"long pair":         `[["` + keyAHex + `", 1, 2]]`,
		"bad object key":    `{"not-a-key": 1}`,
	} {
		var d Delegations
		err := json.Unmarshal([]byte(raw), &d)
		require.Error(err, name)
	}
}

// TestMarshalRoundTrip verifies both kinds encode to the shape they decode
// from.
func TestMarshalRoundTrip(t *testing.T) {
	require := require.New(t)

	legacy := NewLegacy(mustKey(t, keyAHex))
	data, err := json.Marshal(legacy)
	require.NoError(err)
	require.Equal(`"`+keyAHex+`"`, string(data))

	var gotLegacy Delegations
	require.NoError(json.Unmarshal(data, &gotLegacy))
	require.Equal(legacy, gotLegacy)

	weighted := NewWeighted(
		Delegation{VotingKey: mustKey(t, keyBHex), Weight: 3},
		Delegation{VotingKey: mustKey(t, keyAHex), Weight: 1},
	)
	data, err = json.Marshal(weighted)
	require.NoError(err)

	var gotWeighted Delegations
	require.NoError(json.Unmarshal(data, &gotWeighted))
	require.Equal(weighted, gotWeighted)
}

// TestValidate covers the structural invariants.
func TestValidate(t *testing.T) {
	require := require.New(t)

	require.NoError(NewLegacy(mustKey(t, keyAHex)).Validate())
	require.NoError(NewWeighted(Delegation{VotingKey: mustKey(t, keyAHex), Weight: 1}).Validate())

	err := NewWeighted().Validate()
	require.Error(err)
	require.Contains(err.Error(), "at least one voting key")

	err = Delegations{Kind: DelegationsKind(250)}.Validate()
	require.Error(err)
}
