// Package archive reads and writes the header of the engine's on-disk
// package format (.u/.upk/.umap). The compiler core never depends on this;
// the CLI uses it to inspect packages, and a future linker will extend it.
//
// Everything is little-endian. Strings are length-prefixed NUL-terminated
// byte sequences; a negative length marks the UTF-16 variant, which this
// reader rejects as unsupported. Object references are signed 32-bit:
// negative is an import, zero is class/none, positive is an export.
package archive

import "errors"

// Magic opens every package file and every compressed chunk.
const Magic uint32 = 0x9E2A83C1

// CompressionKind values of the Summary CompressionFlags field.
const (
	CompressionNone uint32 = 0
	CompressionZlib uint32 = 1 << 0
	CompressionLZO  uint32 = 1 << 1
	CompressionLZX  uint32 = 1 << 2
)

var (
	// ErrBadMagic indicates the stream does not start with the package magic.
	ErrBadMagic = errors.New("archive: bad magic")
	// ErrUTF16String indicates a negative string length (UTF-16 payload).
	ErrUTF16String = errors.New("archive: UTF-16 strings are not supported")
	// ErrStringNotTerminated indicates a string without the trailing NUL.
	ErrStringNotTerminated = errors.New("archive: string is not NUL-terminated")
	// ErrTruncated indicates the stream ended inside the summary.
	ErrTruncated = errors.New("archive: truncated summary")
	// ErrCountOverflow indicates an implausible element count.
	ErrCountOverflow = errors.New("archive: count out of range")
)

// maxCount bounds generation and chunk counts so corrupt headers cannot
// trigger huge allocations.
const maxCount = 1 << 20

// Generation records the object counts of one save generation.
type Generation struct {
	ExportCount    uint32
	NameCount      uint32
	NetObjectCount uint32
}

// CompressedChunk describes one compressed region of the package body.
// Only the descriptor lives in the summary; the data follows elsewhere.
type CompressedChunk struct {
	UncompressedOffset uint32
	UncompressedSize   uint32
	CompressedOffset   uint32
	CompressedSize     uint32
}

// Summary is the package header: versions, the package group, and the
// offsets and counts of the name/export/import/depends tables.
type Summary struct {
	FileVersion     uint16
	LicenseeVersion uint16
	HeadersSize     uint32
	PackageGroup    string
	PackageFlags    uint32

	NameCount    uint32
	NameOffset   uint32
	ExportCount  uint32
	ExportOffset uint32
	ImportCount  uint32
	ImportOffset uint32
	// DependsOffset carries no matching count: the depends table holds
	// exactly one entry per export, so its length is ExportCount.
	DependsOffset uint32

	GUID        [16]byte
	Generations []Generation

	EngineVersion uint32
	CookerVersion uint32

	CompressionFlags uint32
	CompressedChunks []CompressedChunk
}

// Compressed reports whether the package body is compressed.
func (s *Summary) Compressed() bool {
	return s.CompressionFlags != CompressionNone
}

// ObjectRef is a signed index into the import or export table.
type ObjectRef int32

// IsNone reports the null reference.
func (r ObjectRef) IsNone() bool { return r == 0 }

// IsImport reports a reference into the import table.
func (r ObjectRef) IsImport() bool { return r < 0 }

// IsExport reports a reference into the export table.
func (r ObjectRef) IsExport() bool { return r > 0 }

// ImportIndex returns the zero-based import table index.
// Valid only when IsImport.
func (r ObjectRef) ImportIndex() uint32 { return uint32(-r - 1) }

// ExportIndex returns the zero-based export table index.
// Valid only when IsExport.
func (r ObjectRef) ExportIndex() uint32 { return uint32(r - 1) }
