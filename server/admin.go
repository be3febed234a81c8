package server

import (
	"encoding/json"
	"net/http"

	"github.com/invopop/jsonschema"

	"zonearena/game"
)

// HandleAdminConfig 返回当前玩法参数（启动时固定，不支持热更新）
// GET /admin/config
func (m *RoomManager) HandleAdminConfig(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "tuning is fixed at startup", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, m.cfg)
}

// HandleSchema 调参文件的 JSON Schema
// GET /admin/schema
func (m *RoomManager) HandleSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, TuningSchema())
}

// TuningSchema 由 game.Config 反射生成
func TuningSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(new(game.Config))
	schema.Title = "ZoneArena Tuning"
	schema.Description = "Overrides applied on top of the built-in defaults at startup"
	return schema
}

// HandleMetrics 输出指定房间的运行指标
// GET /metrics?room=arena-1
func (m *RoomManager) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	roomID := r.URL.Query().Get("room")
	if roomID == "" {
		roomID = m.defaultRoom
	}
	room, ok := m.Room(roomID)
	if !ok {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]any{
		"room":    roomID,
		"metrics": room.Metrics().Snapshot(),
	})
}

// HandleRooms 房间列表
// GET /rooms
func (m *RoomManager) HandleRooms(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, m.ListRooms())
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
