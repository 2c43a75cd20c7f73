package block

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack/v5"
)

type Codec string

const (
	CodecJSON    Codec = "json"
	CodecMsgpack Codec = "msgpack"

	ContentTypeJSON    = "application/json"
	ContentTypeMsgpack = "application/msgpack"
)

func ParseCodec(s string) (Codec, error) {
	switch Codec(s) {
	case CodecJSON, "":
		return CodecJSON, nil
	case CodecMsgpack:
		return CodecMsgpack, nil
	default:
		return "", errors.Errorf("unknown codec %q", s)
	}
}

func (c Codec) ContentType() string {
	if c == CodecMsgpack {
		return ContentTypeMsgpack
	}

	return ContentTypeJSON
}

func Marshal(c Codec, v interface{}) ([]byte, error) {
	switch c {
	case CodecMsgpack:
		b, err := msgpack.Marshal(v)
		return b, errors.Wrap(err, "msgpack encoding")
	default:
		b, err := json.Marshal(v)
		return b, errors.Wrap(err, "json encoding")
	}
}

func Unmarshal(c Codec, data []byte, v interface{}) error {
	switch c {
	case CodecMsgpack:
		return errors.Wrap(msgpack.Unmarshal(data, v), "msgpack decoding")
	default:
		return errors.Wrap(json.Unmarshal(data, v), "json decoding")
	}
}
