package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bplusdb/table"
	"bplusdb/tablekey"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tbl, err := table.New("users", 4)
	require.NoError(t, err)
	tbl.Insert(int64(1), map[string]any{"name": "Alice"})
	tbl.Insert(int64(2), map[string]any{"name": "Bob"})
	tbl.Insert("alpha", "value-for-alpha")

	states := TableStates{"users": tbl.ExportState()}

	encoded, err := Encode(states)
	require.NoError(t, err)
	require.NotEmpty(t, encoded)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Contains(t, decoded, "users")

	restored := table.FromState("users", decoded["users"])
	assert.Equal(t, 3, restored.Len())

	v, ok := restored.Select(int64(1))
	require.True(t, ok)
	assert.Equal(t, map[string]any{"name": "Alice"}, v)

	v, ok = restored.Select("alpha")
	require.True(t, ok)
	assert.Equal(t, "value-for-alpha", v)
}

func TestDecodeCorruptDataErrors(t *testing.T) {
	_, err := Decode([]byte("not a valid zstd frame"))
	assert.Error(t, err)
}

func TestEncodeDecodeEmptyStates(t *testing.T) {
	encoded, err := Encode(TableStates{})
	require.NoError(t, err)

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Empty(t, decoded)
}

func TestTablekeyDecodeSurvivesRoundTrip(t *testing.T) {
	tbl, err := table.New("t", 4)
	require.NoError(t, err)
	tbl.Insert(int64(10), "ten")

	states := TableStates{"t": tbl.ExportState()}
	encoded, err := Encode(states)
	require.NoError(t, err)
	decoded, err := Decode(encoded)
	require.NoError(t, err)

	restored := table.FromState("t", decoded["t"])
	records := restored.GetAllRecords()
	require.Len(t, records, 1)
	assert.Equal(t, int64(10), records[0].Key)
	assert.IsType(t, tablekey.Key(""), tablekey.Encode(records[0].Key))
}
