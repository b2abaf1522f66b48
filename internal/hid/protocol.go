package hid

import (
	"encoding/binary"
	"fmt"
)

// Report IDs
const (
	ReportIDPointer byte = 0x01
	ReportIDDisplay byte = 0x02
)

// Pointer actions as sent by the firmware
const (
	ActionDown   byte = 0x01
	ActionMove   byte = 0x02
	ActionUp     byte = 0x03
	ActionCancel byte = 0x04
)

// Display commands
const (
	DisplayCmdFullFrame byte = 0x01
	DisplayCmdPartial   byte = 0x02
	DisplayCmdClear     byte = 0x03
)

const pointerReportSize = 10

// Event is a single pointer sample from the touch surface
type Event struct {
	Action    Action
	X         uint16
	Y         uint16
	Timestamp uint32 // ms since device boot
}

type Action byte

const (
	Down   Action = Action(ActionDown)
	Move   Action = Action(ActionMove)
	Up     Action = Action(ActionUp)
	Cancel Action = Action(ActionCancel)
)

func (a Action) String() string {
	switch a {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Cancel:
		return "cancel"
	default:
		return fmt.Sprintf("unknown(%d)", a)
	}
}

// ParseEvent parses a raw HID report into an Event
// Expected format:
//
//	Byte 0: Report ID (0x01)
//	Byte 1: Action (0x01=down, 0x02=move, 0x03=up, 0x04=cancel)
//	Byte 2-3: X (little-endian u16)
//	Byte 4-5: Y (little-endian u16)
//	Byte 6-9: Timestamp (ms since boot, little-endian u32)
//
// Unknown actions are passed through so the recognizer can reset on them.
func ParseEvent(data []byte) (*Event, error) {
	if len(data) < pointerReportSize {
		return nil, fmt.Errorf("pointer report too short: %d bytes", len(data))
	}

	if data[0] != ReportIDPointer {
		return nil, fmt.Errorf("unexpected report ID: 0x%02X", data[0])
	}

	if data[1] == 0 {
		return nil, fmt.Errorf("missing pointer action")
	}

	return &Event{
		Action:    Action(data[1]),
		X:         binary.LittleEndian.Uint16(data[2:4]),
		Y:         binary.LittleEndian.Uint16(data[4:6]),
		Timestamp: binary.LittleEndian.Uint32(data[6:10]),
	}, nil
}

// Encode serializes the event in report format. The firmware simulator and
// tests use it.
func (e *Event) Encode() []byte {
	buf := make([]byte, pointerReportSize)
	buf[0] = ReportIDPointer
	buf[1] = byte(e.Action)
	binary.LittleEndian.PutUint16(buf[2:4], e.X)
	binary.LittleEndian.PutUint16(buf[4:6], e.Y)
	binary.LittleEndian.PutUint32(buf[6:10], e.Timestamp)
	return buf
}

// DisplayFrame represents a frame to be sent to the OLED display
type DisplayFrame struct {
	Command byte
	X       uint16
	Y       uint16
	Width   uint16
	Height  uint16
	Data    []byte // 1-bit packed pixel data, row-major
}

// Encode serializes the DisplayFrame for transmission
// Format:
//
//	Byte 0: Report ID (0x02)
//	Byte 1: Command (0x01=full frame, 0x02=partial, 0x03=clear)
//	Byte 2-3: X offset (for partial)
//	Byte 4-5: Y offset (for partial)
//	Byte 6-7: Width
//	Byte 8-9: Height
//	Byte 10+: Pixel data (1-bit packed, row-major)
func (f *DisplayFrame) Encode() []byte {
	const headerSize = 10
	buf := make([]byte, headerSize+len(f.Data))

	buf[0] = ReportIDDisplay
	buf[1] = f.Command
	binary.LittleEndian.PutUint16(buf[2:4], f.X)
	binary.LittleEndian.PutUint16(buf[4:6], f.Y)
	binary.LittleEndian.PutUint16(buf[6:8], f.Width)
	binary.LittleEndian.PutUint16(buf[8:10], f.Height)
	copy(buf[headerSize:], f.Data)

	return buf
}

// NewFullFrame creates a full frame display update
func NewFullFrame(width, height uint16, data []byte) *DisplayFrame {
	return &DisplayFrame{
		Command: DisplayCmdFullFrame,
		Width:   width,
		Height:  height,
		Data:    data,
	}
}

// NewPartialFrame creates a partial frame display update
func NewPartialFrame(x, y, width, height uint16, data []byte) *DisplayFrame {
	return &DisplayFrame{
		Command: DisplayCmdPartial,
		X:       x,
		Y:       y,
		Width:   width,
		Height:  height,
		Data:    data,
	}
}

// NewClearCommand creates a display clear command
func NewClearCommand() *DisplayFrame {
	return &DisplayFrame{
		Command: DisplayCmdClear,
	}
}
