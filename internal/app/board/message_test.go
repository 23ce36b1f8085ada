package board

import (
	"encoding/json"
	"math"
	"testing"
)

func TestDrawingPayloadValid(t *testing.T) {
	base := DrawingPayload{Tool: ToolPen, X0: 0.1, Y0: 0.2, X1: 0.3, Y1: 0.4, LineWidth: 2}

	tests := []struct {
		name   string
		mutate func(*DrawingPayload)
		want   bool
	}{
		{"pen stroke", func(p *DrawingPayload) {}, true},
		{"eraser", func(p *DrawingPayload) { p.Tool = ToolEraser }, true},
		{"text at origin", func(p *DrawingPayload) { p.Tool = ToolText; p.X0, p.Y0 = 0, 0; p.Text = "hi" }, true},
		{"boundary coordinates", func(p *DrawingPayload) { p.X1, p.Y1 = 1, 1 }, true},
		{"zero line width", func(p *DrawingPayload) { p.LineWidth = 0 }, true},

		{"unknown tool", func(p *DrawingPayload) { p.Tool = "spray" }, false},
		{"empty tool", func(p *DrawingPayload) { p.Tool = "" }, false},
		{"x below range", func(p *DrawingPayload) { p.X0 = -0.01 }, false},
		{"y above range", func(p *DrawingPayload) { p.Y1 = 1.01 }, false},
		{"NaN coordinate", func(p *DrawingPayload) { p.X1 = math.NaN() }, false},
		{"negative line width", func(p *DrawingPayload) { p.LineWidth = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := base
			tt.mutate(&p)
			if got := p.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEncodeEvent(t *testing.T) {
	data, err := EncodeEvent(EventChatMessage, "board", ChatMessage{Message: "hi", Username: "alice"})
	if err != nil {
		t.Fatalf("EncodeEvent: %v", err)
	}

	var env struct {
		Type    EventType       `json:"type"`
		Room    string          `json:"room"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("frame is not valid JSON: %v", err)
	}
	if env.Type != EventChatMessage || env.Room != "board" {
		t.Errorf("frame header = %s/%s", env.Type, env.Room)
	}

	var msg ChatMessage
	if err := json.Unmarshal(env.Payload, &msg); err != nil || msg.Message != "hi" {
		t.Errorf("payload did not survive encoding: %v %+v", err, msg)
	}
}

func TestUnmarshalPayloadEmpty(t *testing.T) {
	var p ChatPayload
	if err := unmarshalPayload(nil, &p); err == nil {
		t.Error("empty payload accepted")
	}
	if err := unmarshalPayload(json.RawMessage(`{"message":"hi"}`), &p); err != nil || p.Message != "hi" {
		t.Errorf("valid payload rejected: %v", err)
	}
}
