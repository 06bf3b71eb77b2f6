package results

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowJSON_NonFinite(t *testing.T) {
	row := Row{
		TestID: TestShapiro,
		P1:     1,
		Ref:    Float(0),
		TAIB:   math.Inf(1),
		Delta:  Float(math.NaN()),
		Sigma:  math.Inf(-1),
	}

	b, err := json.Marshal(row)
	require.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"taib":"+Inf"`)
	assert.Contains(t, s, `"delta":"NaN"`)
	assert.Contains(t, s, `"sigma":"-Inf"`)
	assert.Contains(t, s, `"ref":0`)
	assert.False(t, strings.Contains(s, "p2"), "unset slots are omitted: %s", s)

	var back Row
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, TestShapiro, back.TestID)
	assert.True(t, math.IsInf(back.TAIB, 1))
	assert.True(t, math.IsInf(back.Sigma, -1))
	d, ok := Value(back.Delta)
	require.True(t, ok)
	assert.True(t, math.IsNaN(d))
	assert.Nil(t, back.P2)
	assert.Nil(t, back.Aux1)
}

func TestRowJSON_PlainNumbers(t *testing.T) {
	var row Row
	require.NoError(t, json.Unmarshal([]byte(`{"test_id":"KERR","p1":5,"p2":0.9,"taib":1.5e2,"sigma":1.1e+120}`), &row))
	assert.Equal(t, TestKerr, row.TestID)
	assert.Equal(t, 150.0, row.TAIB)
	assert.Equal(t, 1.1e120, row.Sigma)
	v, ok := Value(row.P2)
	require.True(t, ok)
	assert.Equal(t, 0.9, v)

	assert.Error(t, json.Unmarshal([]byte(`{"p1":"many"}`), &row))
}
