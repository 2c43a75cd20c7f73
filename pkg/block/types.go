package block

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"strconv"

	"github.com/pkg/errors"
)

// DanceMove is the block payload. Valid ordinals are 1 through 4.
type DanceMove uint8

const (
	Y DanceMove = iota + 1
	M
	C
	A
)

var danceMoveNames = map[DanceMove]string{
	Y: "Y",
	M: "M",
	C: "C",
	A: "A",
}

// DanceMoves lists every valid dance move in ordinal order
func DanceMoves() []DanceMove {
	return []DanceMove{Y, M, C, A}
}

func (d DanceMove) Valid() bool {
	return d >= Y && d <= A
}

func (d DanceMove) String() string {
	if n, ok := danceMoveNames[d]; ok {
		return n
	}

	return "DanceMove(" + strconv.Itoa(int(d)) + ")"
}

func (d DanceMove) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Itoa(int(d))), nil
}

// UnmarshalJSON accepts either the ordinal or the symbolic name. Ordinals
// outside 1..4 decode fine and are left to block validation.
func (d *DanceMove) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var name string
		if err := json.Unmarshal(b, &name); err != nil {
			return err
		}
		for dm, n := range danceMoveNames {
			if n == name {
				*d = dm
				return nil
			}
		}
		return errors.Errorf("unknown dance move %q", name)
	}

	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return errors.Wrap(err, "decoding dance move")
	}
	if v < 0 || v > 0xFF {
		return errors.Errorf("dance move %d out of range", v)
	}

	*d = DanceMove(v)
	return nil
}

// Bytes is a byte sequence which travels as a JSON array of integers
type Bytes []byte

func (b Bytes) Equal(o Bytes) bool {
	return bytes.Equal(b, o)
}

func (b Bytes) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 2+len(b)*4)
	buf = append(buf, '[')
	for i, v := range b {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendUint(buf, uint64(v), 10)
	}
	buf = append(buf, ']')

	return buf, nil
}

// UnmarshalJSON accepts an integer array or a base64 string
func (b *Bytes) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*b = nil
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return errors.Wrap(err, "b64 decoding bytes")
		}
		*b = raw
		return nil
	}

	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return errors.Wrap(err, "decoding byte array")
	}

	out := make(Bytes, len(ints))
	for i, v := range ints {
		if v < 0 || v > 0xFF {
			return errors.Errorf("byte %d out of range at %d", v, i)
		}
		out[i] = byte(v)
	}

	*b = out
	return nil
}
