package video

import "testing"

func TestPaletteShadeMapping(t *testing.T) {
	// BGP = 0b11_10_01_00: color 0 -> entry0(white), 1 -> entry1(light),
	// 2 -> entry2(dark), 3 -> entry3(black).
	const bgp = 0b11_10_01_00

	cases := []struct {
		colorID uint8
		want    shade
	}{
		{0, shadeWhite},
		{1, shadeLightGray},
		{2, shadeDarkGray},
		{3, shadeBlack},
	}

	for _, tc := range cases {
		if got := paletteShade(tc.colorID, bgp); got != tc.want {
			t.Errorf("paletteShade(%d, %#08b) = %d, want %d", tc.colorID, bgp, got, tc.want)
		}
	}
}

func TestFrameBufferSetWritesRGBAWithFullAlpha(t *testing.T) {
	var fb FrameBuffer
	fb.Set(3, 2, shadeDarkGray)

	offset := (2*ScreenWidth + 3) * bytesPerPixel
	got := fb.Bytes()[offset : offset+4]
	want := []byte{85, 85, 85, 255}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("pixel bytes = %v, want %v", got, want)
		}
	}
}

func TestFrameBufferBytesLength(t *testing.T) {
	var fb FrameBuffer
	if got := len(fb.Bytes()); got != ScreenWidth*ScreenHeight*bytesPerPixel {
		t.Errorf("Bytes() length = %d, want %d", got, ScreenWidth*ScreenHeight*bytesPerPixel)
	}
}
