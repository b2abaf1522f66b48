package display

import (
	"bytes"

	"github.com/pleimann/camel-touch/internal/hid"
)

// maxPayload is the pixel data that fits in one 64 byte report after the
// 10 byte display header
const maxPayload = 54

// FrameEncoder splits packed frame buffers into display reports
type FrameEncoder struct {
	width  int
	height int
}

// NewFrameEncoder creates a new frame encoder
func NewFrameEncoder(width, height int) *FrameEncoder {
	return &FrameEncoder{
		width:  width,
		height: height,
	}
}

// EncodeClear creates a display clear command
func (e *FrameEncoder) EncodeClear() *hid.DisplayFrame {
	return hid.NewClearCommand()
}

func (e *FrameEncoder) bytesPerRow() int {
	return (e.width + 7) / 8
}

// RowsPerChunk returns how many full rows fit in one report
func (e *FrameEncoder) RowsPerChunk() int {
	rows := maxPayload / e.bytesPerRow()
	if rows == 0 {
		return 1
	}
	return rows
}

// Chunks splits a packed frame into partial frames of whole rows. A frame
// that fits in one report is sent as a full frame.
func (e *FrameEncoder) Chunks(data []byte) []*hid.DisplayFrame {
	return e.ChangedChunks(nil, data)
}

// ChangedChunks is like Chunks but skips bands whose bytes are unchanged
// from prev. A nil or mis-sized prev yields every band.
func (e *FrameEncoder) ChangedChunks(prev, data []byte) []*hid.DisplayFrame {
	bpr := e.bytesPerRow()
	rows := e.RowsPerChunk()
	compare := len(prev) == len(data)

	var frames []*hid.DisplayFrame
	for y := 0; y < e.height; y += rows {
		h := min(rows, e.height-y)
		start := min(y*bpr, len(data))
		end := min((y+h)*bpr, len(data))

		band := data[start:end]
		if compare && bytes.Equal(prev[start:end], band) {
			continue
		}
		if h == e.height {
			frames = append(frames, hid.NewFullFrame(uint16(e.width), uint16(e.height), band))
			continue
		}
		frames = append(frames, hid.NewPartialFrame(0, uint16(y), uint16(e.width), uint16(h), band))
	}
	return frames
}
