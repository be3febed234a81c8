package server

import "zonearena/game"

// Conn 房间视角下的连接：只负责发送（写协程在连接内部）
type Conn interface {
	Codec() Codec
	Enqueue(b []byte)
	Close()
}

// attachConn 连接建立，身份由网关分配
type attachConn struct {
	ID   game.PlayerID
	Conn Conn
}

// detachConn 连接断开
type detachConn struct {
	ID game.PlayerID
}

// inboundMsg 某个身份的入站消息
type inboundMsg struct {
	ID game.PlayerID
	In Inbound
}
