package matchmaking

import (
	"encoding/json"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec encodes messages for one websocket subprotocol.
type Codec interface {
	// Name is the subprotocol token negotiated during the upgrade.
	Name() string
	// FrameType is the websocket frame type carrying encoded messages.
	FrameType() int
	Encode(msg *Message) ([]byte, error)
	Decode(data []byte, msg *Message) error
}

var (
	// JSON is the default codec, used when no subprotocol is negotiated.
	JSON Codec = jsonCodec{}
	// MsgPack carries the same envelope as binary MessagePack frames.
	MsgPack Codec = msgpackCodec{}
)

// Subprotocols lists the codec names the server accepts, in preference order.
var Subprotocols = []string{JSON.Name(), MsgPack.Name()}

// CodecFor returns the codec registered under name, falling back to JSON.
func CodecFor(name string) Codec {
	if name == MsgPack.Name() {
		return MsgPack
	}
	return JSON
}

type jsonCodec struct{}

func (jsonCodec) Name() string   { return "json" }
func (jsonCodec) FrameType() int { return websocket.TextMessage }

func (jsonCodec) Encode(msg *Message) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Decode(data []byte, msg *Message) error {
	return json.Unmarshal(data, msg)
}

type msgpackCodec struct{}

func (msgpackCodec) Name() string   { return "msgpack" }
func (msgpackCodec) FrameType() int { return websocket.BinaryMessage }

func (msgpackCodec) Encode(msg *Message) ([]byte, error) {
	return msgpack.Marshal(msg)
}

func (msgpackCodec) Decode(data []byte, msg *Message) error {
	return msgpack.Unmarshal(data, msg)
}
