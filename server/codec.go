package server

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// 出站消息类型
const (
	MsgInit   = "init"
	MsgUpdate = "update"
	MsgDied   = "died"
	MsgPong   = "pong_check"
)

// OutboundMessage 出站信封：{"type":"update","data":{...}}
type OutboundMessage struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

// InitPayload 加入后返回给客户端
type InitPayload struct {
	MapSize float64 `json:"mapSize"`
	ID      string  `json:"id"`
}

// DiedPayload 死亡通知
type DiedPayload struct {
	KilledBy string `json:"killedBy"`
}

// Codec 每个连接选定一种编码，入站与出站一致
type Codec interface {
	Name() string
	FrameType() int
	Encode(msg OutboundMessage) ([]byte, error)
	Decode(b []byte) (InputMessage, error)
}

type jsonCodec struct{}

func (jsonCodec) Name() string   { return "json" }
func (jsonCodec) FrameType() int { return websocket.TextMessage }

func (jsonCodec) Encode(msg OutboundMessage) ([]byte, error) { return json.Marshal(msg) }

func (jsonCodec) Decode(b []byte) (InputMessage, error) {
	var im InputMessage
	err := json.Unmarshal(b, &im)
	return im, err
}

// msgpackCodec 二进制帧；沿用 json 标签，字段名与 JSON 一致
type msgpackCodec struct{}

func (msgpackCodec) Name() string   { return "msgpack" }
func (msgpackCodec) FrameType() int { return websocket.BinaryMessage }

func (msgpackCodec) Encode(msg OutboundMessage) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(&msg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (msgpackCodec) Decode(b []byte) (InputMessage, error) {
	var im InputMessage
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	dec.SetCustomStructTag("json")
	err := dec.Decode(&im)
	return im, err
}

// CodecByName 空字符串为 json
func CodecByName(name string) (Codec, bool) {
	switch strings.ToLower(name) {
	case "", "json":
		return jsonCodec{}, true
	case "msgpack":
		return msgpackCodec{}, true
	}
	return nil, false
}
