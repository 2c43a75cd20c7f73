package block

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONWireFormat(t *testing.T) {
	b := New([]byte{0, 1, 255}, "miner1", 18446744073709551615, C)

	d, err := Marshal(CodecJSON, &b)
	if err != nil {
		t.Fatal(err)
	}

	assert.JSONEq(t, `{"parent_hash":[0,1,255],"miner":"miner1","nonce":18446744073709551615,"dancemove":3}`, string(d))

	rb := Block{}
	if err := Unmarshal(CodecJSON, d, &rb); err != nil {
		t.Fatal(err)
	}

	assert.Equal(t, b, rb)
	assert.Equal(t, b.Hash(), rb.Hash())
}

func TestJSONEmptyParent(t *testing.T) {
	g := NewGenesis(Y)

	d, err := json.Marshal(&g)
	require.NoError(t, err)
	assert.Contains(t, string(d), `"parent_hash":[]`)

	rb := Block{}
	require.NoError(t, json.Unmarshal(d, &rb))
	assert.Empty(t, rb.ParentHash)
	assert.Equal(t, g.Hash(), rb.Hash())
}

func TestJSONLenientDecoding(t *testing.T) {
	rb := Block{}
	err := json.Unmarshal([]byte(`{"parent_hash":"AAH/","miner":"m","nonce":1,"dancemove":"A"}`), &rb)
	require.NoError(t, err)

	assert.Equal(t, Bytes{0, 1, 255}, rb.ParentHash)
	assert.Equal(t, A, rb.DanceMove)

	//out of range moves decode and are caught by validation
	err = json.Unmarshal([]byte(`{"parent_hash":[],"miner":"m","nonce":1,"dancemove":5}`), &rb)
	require.NoError(t, err)
	assert.Equal(t, DanceMove(5), rb.DanceMove)
	assert.ErrorIs(t, rb.IsValid(Rules{}), ErrInvalidDanceMove)

	assert.Error(t, json.Unmarshal([]byte(`{"dancemove":"Z"}`), &rb))
	assert.Error(t, json.Unmarshal([]byte(`{"dancemove":256}`), &rb))
	assert.Error(t, json.Unmarshal([]byte(`{"parent_hash":[256]}`), &rb))
}

func TestMsgpackBlocks(t *testing.T) {
	blocks := []Block{
		NewGenesis(Y),
		New(make([]byte, HashSize), "miner1", 42, M),
	}

	d, err := Marshal(CodecMsgpack, blocks)
	if err != nil {
		t.Fatal(err)
	}

	var rb []Block
	if err := Unmarshal(CodecMsgpack, d, &rb); err != nil {
		t.Fatal(err)
	}

	require.Len(t, rb, 2)
	assert.Equal(t, blocks[1], rb[1])
	assert.Equal(t, blocks[0].Hash(), rb[0].Hash())
}

func TestParseCodec(t *testing.T) {
	c, err := ParseCodec("")
	require.NoError(t, err)
	assert.Equal(t, CodecJSON, c)

	c, err = ParseCodec("msgpack")
	require.NoError(t, err)
	assert.Equal(t, ContentTypeMsgpack, c.ContentType())

	_, err = ParseCodec("xml")
	assert.Error(t, err)
}

func TestDanceMoveString(t *testing.T) {
	assert.Equal(t, "Y", Y.String())
	assert.Equal(t, "A", A.String())
	assert.Equal(t, "DanceMove(9)", DanceMove(9).String())
	assert.Len(t, DanceMoves(), 4)
}
