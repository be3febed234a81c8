package server

import (
	"errors"
	"strings"
	"unicode/utf8"

	"zonearena/game"
)

const maxNameLen = 24

var errUnknownMessage = errors.New("unknown message")

// InputMessage 入站消息（JSON 文本或 msgpack 二进制，字段相同）
// 示例：{"type":"move","x":1,"y":0,"aimX":1,"aimY":0}
//
//	{"type":"action","action":"shoot"}
type InputMessage struct {
	Type   string  `json:"type"`
	Name   string  `json:"name,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	AimX   float64 `json:"aimX,omitempty"`
	AimY   float64 `json:"aimY,omitempty"`
	Action string  `json:"action,omitempty"`
}

// Inbound 在边界解码一次后的入站消息：游戏命令或心跳
type Inbound struct {
	Cmd  game.Command
	Ping bool
}

// ToInbound 将消息转换为带身份的命令；未知类型返回 errUnknownMessage
func (m InputMessage) ToInbound(id game.PlayerID) (Inbound, error) {
	switch strings.ToLower(m.Type) {
	case "join":
		return Inbound{Cmd: game.Join{ID: id, Name: cleanName(m.Name)}}, nil
	case "move":
		return Inbound{Cmd: game.Move{ID: id, X: m.X, Y: m.Y, AimX: m.AimX, AimY: m.AimY}}, nil
	case "action":
		switch strings.ToLower(m.Action) {
		case "shoot":
			return Inbound{Cmd: game.Shoot{ID: id}}, nil
		case "shield_on":
			return Inbound{Cmd: game.ShieldOn{ID: id}}, nil
		case "shield_off":
			return Inbound{Cmd: game.ShieldOff{ID: id}}, nil
		}
	case "ping_check":
		return Inbound{Ping: true}, nil
	}
	return Inbound{}, errUnknownMessage
}

// cleanName 去除首尾空白并截断
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) > maxNameLen {
		name = string([]rune(name)[:maxNameLen])
	}
	return name
}
