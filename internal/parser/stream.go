package parser

import "muscript/internal/token"

// Stream is a cursor over a preprocessed token ID sequence. Comment-channel
// tokens are transparent: Peek and Next never surface them. The final EOF
// token is sticky — Next at the end keeps returning it, so parsers never
// run off the stream.
type Stream struct {
	arena *token.Arena
	ids   []token.ID
	pos   int
}

func NewStream(arena *token.Arena, ids []token.ID) *Stream {
	s := &Stream{arena: arena, ids: ids}
	s.skipTrivia()
	return s
}

func (s *Stream) skipTrivia() {
	for s.pos < len(s.ids) && s.arena.Get(s.ids[s.pos]).Channel == token.ChannelComment {
		s.pos++
	}
}

// Peek returns the next significant token without consuming it.
func (s *Stream) Peek() token.Token {
	return s.arena.Get(s.PeekID())
}

// PeekID returns the arena ID of the next significant token.
func (s *Stream) PeekID() token.ID {
	if s.pos >= len(s.ids) {
		return s.lastID()
	}
	return s.ids[s.pos]
}

// Peek2 returns the significant token after the next one.
func (s *Stream) Peek2() token.Token {
	i := s.pos + 1
	for i < len(s.ids) && s.arena.Get(s.ids[i]).Channel == token.ChannelComment {
		i++
	}
	if i >= len(s.ids) {
		return s.arena.Get(s.lastID())
	}
	return s.arena.Get(s.ids[i])
}

// Next consumes and returns the next significant token's ID. The trailing
// EOF is never consumed.
func (s *Stream) Next() token.ID {
	id := s.PeekID()
	if s.pos < len(s.ids) && s.arena.Get(id).Kind != token.EOF {
		s.pos++
		s.skipTrivia()
	}
	return id
}

// Pos and Seek expose the cursor for lazy-block capture and re-parsing.
func (s *Stream) Pos() int { return s.pos }

func (s *Stream) Seek(pos int) {
	s.pos = pos
	s.skipTrivia()
}

func (s *Stream) lastID() token.ID {
	if len(s.ids) == 0 {
		// пустого входа не бывает: лексер всегда кладёт EOF
		return 0
	}
	return s.ids[len(s.ids)-1]
}
