package archive_test

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"muscript/internal/archive"
)

func sampleSummary() *archive.Summary {
	return &archive.Summary{
		FileVersion:     845,
		LicenseeVersion: 59,
		HeadersSize:     0x2000,
		PackageGroup:    "None",
		PackageFlags:    0x00000001,
		NameCount:       1200,
		NameOffset:      0x80,
		ExportCount:     340,
		ExportOffset:    0x9000,
		ImportCount:     56,
		ImportOffset:    0x8800,
		DependsOffset:   0xA000,
		GUID:            [16]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16},
		Generations: []archive.Generation{
			{ExportCount: 340, NameCount: 1200, NetObjectCount: 12},
		},
		EngineVersion:    8916,
		CookerVersion:    0,
		CompressionFlags: archive.CompressionLZO,
		CompressedChunks: []archive.CompressedChunk{
			{UncompressedOffset: 0x2000, UncompressedSize: 0x10000, CompressedOffset: 0x2000, CompressedSize: 0x7f00},
		},
	}
}

func TestSummaryRoundTrip(t *testing.T) {
	want := sampleSummary()
	var buf bytes.Buffer
	if err := archive.WriteSummary(&buf, want); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := archive.ReadSummary(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}
	if !got.Compressed() {
		t.Error("LZO summary should report Compressed")
	}
}

func TestReadBadMagic(t *testing.T) {
	_, err := archive.ReadSummary(bytes.NewReader([]byte{0xDE, 0xAD, 0xBE, 0xEF, 0, 0, 0, 0}))
	if !errors.Is(err, archive.ErrBadMagic) {
		t.Fatalf("want ErrBadMagic, got %v", err)
	}
}

func TestReadTruncated(t *testing.T) {
	var buf bytes.Buffer
	if err := archive.WriteSummary(&buf, sampleSummary()); err != nil {
		t.Fatalf("write: %v", err)
	}
	short := buf.Bytes()[:buf.Len()/2]
	if _, err := archive.ReadSummary(bytes.NewReader(short)); !errors.Is(err, archive.ErrTruncated) {
		t.Fatalf("want ErrTruncated, got %v", err)
	}
}

func TestReadUTF16StringRejected(t *testing.T) {
	var buf bytes.Buffer
	s := sampleSummary()
	if err := archive.WriteSummary(&buf, s); err != nil {
		t.Fatalf("write: %v", err)
	}
	raw := buf.Bytes()
	// Перебиваем длину PackageGroup (сразу после magic+versions+headersSize)
	// отрицательным значением: признак UTF-16.
	off := 4 + 2 + 2 + 4
	raw[off] = 0xFB
	raw[off+1] = 0xFF
	raw[off+2] = 0xFF
	raw[off+3] = 0xFF
	if _, err := archive.ReadSummary(bytes.NewReader(raw)); !errors.Is(err, archive.ErrUTF16String) {
		t.Fatalf("want ErrUTF16String, got %v", err)
	}
}

func TestObjectRef(t *testing.T) {
	cases := []struct {
		ref      archive.ObjectRef
		none     bool
		imported bool
		exported bool
	}{
		{0, true, false, false},
		{-3, false, true, false},
		{7, false, false, true},
	}
	for _, tc := range cases {
		if tc.ref.IsNone() != tc.none || tc.ref.IsImport() != tc.imported || tc.ref.IsExport() != tc.exported {
			t.Errorf("ref %d classified wrong", tc.ref)
		}
	}
	if idx := archive.ObjectRef(-3).ImportIndex(); idx != 2 {
		t.Errorf("ImportIndex(-3) = %d, want 2", idx)
	}
	if idx := archive.ObjectRef(7).ExportIndex(); idx != 6 {
		t.Errorf("ExportIndex(7) = %d, want 6", idx)
	}
}
