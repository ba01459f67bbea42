package encoder

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Name   string
	Values []uint64
}

func TestJSONRoundTrip(t *testing.T) {
	in := snapshot{Name: "srs", Values: []uint64{1, 2, 3}}

	var buf bytes.Buffer
	written, err := Encode(&buf, &in)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), written)

	var out snapshot
	read, err := Decode(&buf, &out)
	require.NoError(t, err)
	assert.Equal(t, written, read)
	assert.Equal(t, in, out)
}

func TestGobRoundTrip(t *testing.T) {
	in := snapshot{Name: "srs", Values: []uint64{4, 5, 6}}

	var buf bytes.Buffer
	written, err := EncodeGob(&buf, &in)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), written)

	var out snapshot
	read, err := DecodeGob(&buf, &out)
	require.NoError(t, err)
	assert.Equal(t, written, read)
	assert.Equal(t, in, out)
}

func TestDecodeMalformed(t *testing.T) {
	var out snapshot
	_, err := Decode(bytes.NewReader([]byte(`{"Name":`)), &out)
	assert.Error(t, err)

	_, err = DecodeGob(bytes.NewReader([]byte{0x01, 0x02}), &out)
	assert.Error(t, err)
}
