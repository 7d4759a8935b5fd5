package video

import "testing"

func makeOAMEntry(oam []byte, index int, y, x, tile, attr uint8) {
	base := index * 4
	oam[base] = y
	oam[base+1] = x
	oam[base+2] = tile
	oam[base+3] = attr
}

func TestScanOAMSelectsVisibleSprites(t *testing.T) {
	oam := make([]byte, 40*4)
	makeOAMEntry(oam, 0, 16, 10, 1, 0) // covers screen line 0 (16..23)
	makeOAMEntry(oam, 1, 32, 20, 2, 0) // covers screen line 16 (32..39)

	got := scanOAM(oam, 0, false)
	if len(got) != 1 || got[0].tile != 1 {
		t.Fatalf("scanOAM(ly=0) = %+v, want one entry with tile 1", got)
	}

	got = scanOAM(oam, 16, false)
	if len(got) != 1 || got[0].tile != 2 {
		t.Fatalf("scanOAM(ly=16) = %+v, want one entry with tile 2", got)
	}
}

func TestScanOAMTallSpritesSpanSixteenRows(t *testing.T) {
	oam := make([]byte, 40*4)
	makeOAMEntry(oam, 0, 16, 10, 0, 0)

	if got := scanOAM(oam, 0, true); len(got) != 1 {
		t.Fatalf("ly=0 tall: got %d sprites, want 1", len(got))
	}
	if got := scanOAM(oam, 15, true); len(got) != 1 {
		t.Fatalf("ly=15 tall: got %d sprites, want 1", len(got))
	}
	if got := scanOAM(oam, 16, true); len(got) != 0 {
		t.Fatalf("ly=16 tall: got %d sprites, want 0 (past the 16-row span)", len(got))
	}
}

func TestScanOAMCapsAtTenAndPreservesOAMOrderOnTies(t *testing.T) {
	oam := make([]byte, 40*4)
	for i := 0; i < 12; i++ {
		makeOAMEntry(oam, i, 16, 50, uint8(i), 0) // all at the same X
	}

	got := scanOAM(oam, 0, false)
	if len(got) != maxSpritesPerLine {
		t.Fatalf("got %d sprites, want %d (cap)", len(got), maxSpritesPerLine)
	}
	for i, e := range got {
		if e.tile != uint8(i) {
			t.Fatalf("entry %d tile = %d, want %d (OAM order preserved among X ties)", i, e.tile, i)
		}
	}
}

func TestScanOAMSortsByX(t *testing.T) {
	oam := make([]byte, 40*4)
	makeOAMEntry(oam, 0, 16, 100, 0, 0)
	makeOAMEntry(oam, 1, 16, 10, 1, 0)
	makeOAMEntry(oam, 2, 16, 50, 2, 0)

	got := scanOAM(oam, 0, false)
	if len(got) != 3 {
		t.Fatalf("got %d sprites, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].x > got[i].x {
			t.Fatalf("entries not sorted by X ascending: %+v", got)
		}
	}
	if got[0].tile != 1 || got[1].tile != 2 || got[2].tile != 0 {
		t.Fatalf("unexpected sort order: %+v", got)
	}
}
