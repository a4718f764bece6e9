// Package notify доставляет события загрузки подписчикам: по websocket или через Redis pub/sub.
package notify

import (
	"context"
	"encoding/json"
)

// EventConnect отправляется клиенту сразу после подключения.
const (
	EventConnect    = "connect"
	EventFileUpload = "file-upload"
)

// Emitter отправляет событие в канал. Доставка best-effort: вызывающий может игнорировать ошибку.
type Emitter interface {
	Emit(ctx context.Context, channel, event string, payload any) error
}

// Envelope: формат сообщения на проводе.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

func encode(event string, payload any) ([]byte, error) {
	return json.Marshal(Envelope{Event: event, Data: payload})
}

// Nop отбрасывает все события.
type Nop struct{}

func (Nop) Emit(context.Context, string, string, any) error { return nil }

var (
	_ Emitter = Nop{}
	_ Emitter = (*Hub)(nil)
	_ Emitter = (*Redis)(nil)
)
