package feeschedule

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsFreshCopy(t *testing.T) {
	a := Default()
	a["visaMcFee"] = Row{Category: "changed"}
	b := Default()
	assert.Equal(t, "Visa/MC Transaction Fee", b["visaMcFee"].Category)
	assert.Len(t, b, 18)
	assert.Len(t, Keys(), 18)
}

func TestMergeSingleField(t *testing.T) {
	merged := Merge([]byte(`{"visaMcFee":{"option1":"$0.02"}}`))

	want := Default()
	row := want["visaMcFee"]
	row.Option1 = "$0.02"
	want["visaMcFee"] = row

	assert.Equal(t, want, merged)
}

func TestMergeIgnoresUnknownAndNonObjects(t *testing.T) {
	merged := Merge([]byte(`{"madeUp":{"option1":"x"},"binSponsorship":"nope","monthlyMinimum":{"option2":12.5,"option3":null}}`))

	assert.NotContains(t, merged, "madeUp")
	assert.Equal(t, Default()["binSponsorship"], merged["binSponsorship"])
	assert.Equal(t, "12.5", merged["monthlyMinimum"].Option2)
	assert.Equal(t, "$0.00", merged["monthlyMinimum"].Option3)
}

func TestMergeFallsBack(t *testing.T) {
	for _, raw := range []string{"", "null", "[]", "42", `"not json"`, "{broken"} {
		assert.Equal(t, Default(), Merge([]byte(raw)), "input %q", raw)
	}
}

func TestMergeDoubleEncoded(t *testing.T) {
	obj := `{"chargebackFee":{"option1":"$20.00"}}`
	once, err := json.Marshal(obj)
	require.NoError(t, err)
	twice, err := json.Marshal(string(once))
	require.NoError(t, err)

	want := Merge([]byte(obj))
	assert.Equal(t, want, Merge(once))
	assert.Equal(t, want, Merge(twice))
	assert.Equal(t, "$20.00", want["chargebackFee"].Option1)
}

func TestTable(t *testing.T) {
	lines := strings.Split(Default().Table(), "\n")
	require.Len(t, lines, 20)
	assert.Equal(t, tableHeader, lines[0])
	assert.Equal(t, strings.Repeat("-", 120), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "Equipment & Software"+strings.Repeat(" ", 28)+" SkyTab"))
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], " 25% Fee"))
}

func TestMarshalCanonical(t *testing.T) {
	partial := Schedule{"visaMcFee": {Category: "Visa", Option1: "1"}}
	raw, err := partial.MarshalCanonical()
	require.NoError(t, err)

	var back Schedule
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Len(t, back, 18)
	assert.Equal(t, "Visa", back["visaMcFee"].Category)
}
