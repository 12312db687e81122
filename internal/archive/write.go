package archive

import (
	"encoding/binary"
	"fmt"
	"io"
)

type writer struct {
	w   io.Writer
	err error
}

func (wr *writer) write(v any) {
	if wr.err != nil {
		return
	}
	wr.err = binary.Write(wr.w, binary.LittleEndian, v)
}

// str writes a length-prefixed NUL-terminated string. The empty string is
// written as length zero with no payload, matching what the engine emits.
func (wr *writer) str(s string) {
	if wr.err != nil {
		return
	}
	if s == "" {
		wr.write(int32(0))
		return
	}
	if len(s)+1 > maxCount {
		wr.err = fmt.Errorf("%w: string of %d bytes", ErrCountOverflow, len(s))
		return
	}
	wr.write(int32(len(s) + 1)) // #nosec G115 -- bounded by maxCount
	wr.write([]byte(s))
	wr.write(byte(0))
}

// WriteSummary serializes a package summary to w.
func WriteSummary(w io.Writer, s *Summary) error {
	wr := &writer{w: w}

	wr.write(Magic)
	wr.write(s.FileVersion)
	wr.write(s.LicenseeVersion)
	wr.write(s.HeadersSize)
	wr.str(s.PackageGroup)
	wr.write(s.PackageFlags)

	wr.write(s.NameCount)
	wr.write(s.NameOffset)
	wr.write(s.ExportCount)
	wr.write(s.ExportOffset)
	wr.write(s.ImportCount)
	wr.write(s.ImportOffset)
	wr.write(s.DependsOffset)

	wr.write(s.GUID)

	if len(s.Generations) > maxCount {
		return fmt.Errorf("%w: %d generations", ErrCountOverflow, len(s.Generations))
	}
	wr.write(uint32(len(s.Generations))) // #nosec G115 -- bounded by maxCount
	for i := range s.Generations {
		wr.write(s.Generations[i])
	}

	wr.write(s.EngineVersion)
	wr.write(s.CookerVersion)

	wr.write(s.CompressionFlags)
	if len(s.CompressedChunks) > maxCount {
		return fmt.Errorf("%w: %d chunks", ErrCountOverflow, len(s.CompressedChunks))
	}
	wr.write(uint32(len(s.CompressedChunks))) // #nosec G115 -- bounded by maxCount
	for i := range s.CompressedChunks {
		wr.write(s.CompressedChunks[i])
	}

	return wr.err
}
