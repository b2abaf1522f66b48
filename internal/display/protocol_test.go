package display

import (
	"testing"

	"github.com/pleimann/camel-touch/internal/hid"
)

func TestFrameEncoderEncodeClear(t *testing.T) {
	frame := NewFrameEncoder(128, 64).EncodeClear()
	if frame.Command != hid.DisplayCmdClear {
		t.Errorf("Command = 0x%02X, want 0x%02X", frame.Command, hid.DisplayCmdClear)
	}
}

func repeat(h uint16, n int) []uint16 {
	out := make([]uint16, n)
	for i := range out {
		out[i] = h
	}
	return out
}

func TestFrameEncoderChunks(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		wantHeights   []uint16
	}{
		// 2 bytes per row, 27 rows per 54 byte chunk
		{"two chunks", 16, 32, []uint16{27, 5}},
		{"single chunk", 8, 8, []uint16{8}},
		{"odd width", 12, 4, []uint16{4}},
		// 16 bytes per row, 3 rows per chunk
		{"oled", 128, 64, append(repeat(3, 21), 1)},
		// 63 bytes per row is wider than one report
		{"wide", 504, 2, []uint16{1, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := NewFrameEncoder(tt.width, tt.height)
			bpr := (tt.width + 7) / 8
			frames := enc.Chunks(make([]byte, bpr*tt.height))

			if len(frames) != len(tt.wantHeights) {
				t.Fatalf("len(frames) = %d, want %d", len(frames), len(tt.wantHeights))
			}
			y := uint16(0)
			for i, f := range frames {
				want := hid.DisplayCmdPartial
				if len(frames) == 1 {
					want = hid.DisplayCmdFullFrame
				}
				if f.Command != want {
					t.Errorf("frame[%d].Command = 0x%02X, want 0x%02X", i, f.Command, want)
				}
				if f.Y != y || f.Height != tt.wantHeights[i] || f.Width != uint16(tt.width) {
					t.Errorf("frame[%d] = y%d %dx%d, want y%d %dx%d",
						i, f.Y, f.Width, f.Height, y, tt.width, tt.wantHeights[i])
				}
				if len(f.Data) != int(f.Height)*bpr {
					t.Errorf("len(frame[%d].Data) = %d, want %d", i, len(f.Data), int(f.Height)*bpr)
				}
				y += f.Height
			}
		})
	}
}

func TestFrameEncoderChangedChunks(t *testing.T) {
	enc := NewFrameEncoder(16, 32) // bands at rows 0 and 27
	prev := make([]byte, 64)
	cur := make([]byte, 64)

	if frames := enc.ChangedChunks(prev, cur); len(frames) != 0 {
		t.Errorf("identical frames produced %d chunks, want 0", len(frames))
	}

	cur[60] = 0xFF // row 30
	frames := enc.ChangedChunks(prev, cur)
	if len(frames) != 1 || frames[0].Y != 27 {
		t.Fatalf("frames = %v, want one band at y=27", frames)
	}

	if frames := enc.ChangedChunks(prev[:10], cur); len(frames) != 2 {
		t.Errorf("mis-sized prev produced %d chunks, want 2", len(frames))
	}
}
