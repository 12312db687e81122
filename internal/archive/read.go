package archive

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

type reader struct {
	r   io.Reader
	err error
}

func (rd *reader) u16() uint16 {
	var v uint16
	rd.read(&v)
	return v
}

func (rd *reader) u32() uint32 {
	var v uint32
	rd.read(&v)
	return v
}

func (rd *reader) i32() int32 {
	var v int32
	rd.read(&v)
	return v
}

func (rd *reader) read(v any) {
	if rd.err != nil {
		return
	}
	if err := binary.Read(rd.r, binary.LittleEndian, v); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			rd.err = ErrTruncated
			return
		}
		rd.err = err
	}
}

// str reads a length-prefixed NUL-terminated string. The prefix counts the
// NUL; the returned string does not include it.
func (rd *reader) str() string {
	n := rd.i32()
	if rd.err != nil {
		return ""
	}
	switch {
	case n == 0:
		return ""
	case n < 0:
		rd.err = ErrUTF16String
		return ""
	case n > maxCount:
		rd.err = ErrCountOverflow
		return ""
	}
	buf := make([]byte, n)
	rd.read(buf)
	if rd.err != nil {
		return ""
	}
	if buf[n-1] != 0 {
		rd.err = ErrStringNotTerminated
		return ""
	}
	return string(buf[:n-1])
}

// ReadSummary parses a package summary from the start of r.
func ReadSummary(r io.Reader) (*Summary, error) {
	rd := &reader{r: r}

	if magic := rd.u32(); rd.err == nil && magic != Magic {
		return nil, fmt.Errorf("%w: %#08x", ErrBadMagic, magic)
	}

	s := &Summary{
		FileVersion:     rd.u16(),
		LicenseeVersion: rd.u16(),
		HeadersSize:     rd.u32(),
		PackageGroup:    rd.str(),
		PackageFlags:    rd.u32(),

		NameCount:     rd.u32(),
		NameOffset:    rd.u32(),
		ExportCount:   rd.u32(),
		ExportOffset:  rd.u32(),
		ImportCount:   rd.u32(),
		ImportOffset:  rd.u32(),
		DependsOffset: rd.u32(),
	}
	rd.read(&s.GUID)

	genCount := rd.u32()
	if rd.err == nil && genCount > maxCount {
		return nil, fmt.Errorf("%w: %d generations", ErrCountOverflow, genCount)
	}
	if rd.err == nil {
		s.Generations = make([]Generation, genCount)
		for i := range s.Generations {
			rd.read(&s.Generations[i])
		}
	}

	s.EngineVersion = rd.u32()
	s.CookerVersion = rd.u32()

	s.CompressionFlags = rd.u32()
	chunkCount := rd.u32()
	if rd.err == nil && chunkCount > maxCount {
		return nil, fmt.Errorf("%w: %d chunks", ErrCountOverflow, chunkCount)
	}
	if rd.err == nil {
		s.CompressedChunks = make([]CompressedChunk, chunkCount)
		for i := range s.CompressedChunks {
			rd.read(&s.CompressedChunks[i])
		}
	}

	if rd.err != nil {
		return nil, rd.err
	}
	return s, nil
}
