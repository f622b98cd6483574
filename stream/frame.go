package stream

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/Mefin-SR/FlowtrixGame/session"
)

// Frame kinds
const (
	FrameHello    = "hello"
	FrameSnapshot = "snapshot"
)

// Frame is one binary websocket message
// A hello frame carries only the subscriber id; snapshot frames carry a sequence number and the run state
type Frame struct {
	Kind     string            `msgpack:"kind"`
	ID       string            `msgpack:"id,omitempty"`
	Seq      uint64            `msgpack:"seq,omitempty"`
	Snapshot *session.Snapshot `msgpack:"snapshot,omitempty"`
}

// Encode marshals a frame
func Encode(f Frame) ([]byte, error) {
	data, err := msgpack.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("stream: encode %s frame: %w", f.Kind, err)
	}
	return data, nil
}

// Decode unmarshals a frame
func Decode(data []byte) (Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return Frame{}, fmt.Errorf("stream: decode frame: %w", err)
	}
	return f, nil
}
