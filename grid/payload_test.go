package grid

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"dbconsole/models"
)

func TestDecodePayload(t *testing.T) {
	p, err := DecodePayload([]byte(`{"header":["id","state"],"rows":[["1","success"],[2,null]],"total":7}`), DefaultPayloadPaths)
	require.NoError(t, err)
	require.Equal(t, []string{"id", "state"}, p.Header)
	require.Equal(t, [][]any{{"1", "success"}, {json.Number("2"), nil}}, p.Rows)
	require.NotNil(t, p.Total)
	require.Equal(t, 7, *p.Total)
}

func TestDecodePayloadKeepsNumberLiterals(t *testing.T) {
	p, err := DecodePayload([]byte(`{"header":["task_id","ratio"],"rows":[[9007199254740993,0.1],[9007199254740992,1e3]]}`), DefaultPayloadPaths)
	require.NoError(t, err)
	require.Equal(t, [][]any{
		{json.Number("9007199254740993"), json.Number("0.1")},
		{json.Number("9007199254740992"), json.Number("1e3")},
	}, p.Rows)

	recs := BuildRecords(p.Header, p.Rows, "task_id")
	require.Equal(t, "9007199254740993", recs[0][models.RowKeyField])
	require.Equal(t, "9007199254740992", recs[1][models.RowKeyField])

	out, err := json.Marshal(recs)
	require.NoError(t, err)
	require.JSONEq(t, `[
		{"task_id":9007199254740993,"ratio":0.1,"rowKey":"9007199254740993"},
		{"task_id":9007199254740992,"ratio":1e3,"rowKey":"9007199254740992"}
	]`, string(out))
	require.Contains(t, string(out), `"task_id":9007199254740993`)
}

func TestDecodePayloadWithoutTotal(t *testing.T) {
	p, err := DecodePayload([]byte(`{"header":["a"],"rows":[]}`), PayloadPaths{})
	require.NoError(t, err)
	require.Nil(t, p.Total)
	require.Empty(t, p.Rows)
	require.Equal(t, []string{"a"}, p.Header)
}

func TestDecodePayloadCustomPaths(t *testing.T) {
	p, err := DecodePayload([]byte(`{"table":{"cols":["x"],"data":[["1"]]},"page":{"count":3}}`),
		PayloadPaths{Header: "table.cols", Rows: "table.data", Total: "page.count"})
	require.NoError(t, err)
	require.Equal(t, []string{"x"}, p.Header)
	require.Len(t, p.Rows, 1)
	require.Equal(t, 3, *p.Total)
}

func TestDecodePayloadEmptyData(t *testing.T) {
	for _, data := range []string{"", "null", "  "} {
		p, err := DecodePayload([]byte(data), DefaultPayloadPaths)
		require.NoError(t, err)
		require.Empty(t, p.Header)
		require.Empty(t, p.Rows)
	}
}

func TestDecodePayloadRejectsMalformed(t *testing.T) {
	_, err := DecodePayload([]byte(`{"header":"id"}`), DefaultPayloadPaths)
	require.Error(t, err)
	_, err = DecodePayload([]byte(`{"header":["id"],"rows":[{"id":1}]}`), DefaultPayloadPaths)
	require.ErrorContains(t, err, "row 0")
	_, err = DecodePayload([]byte(`{not json`), DefaultPayloadPaths)
	require.Error(t, err)
}

func TestDecodeCount(t *testing.T) {
	cases := map[string]int{
		`42`:           42,
		`"17"`:         17,
		`{"data":5}`:   5,
		`{"count":6}`:  6,
		`{"total":0}`:  0,
		` 12 `:         12,
	}
	for in, want := range cases {
		got, err := DecodeCount([]byte(in))
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	_, err := DecodeCount([]byte(`{"data":"many"}`))
	require.Error(t, err)
	_, err = DecodeCount([]byte(`true`))
	require.Error(t, err)
}
