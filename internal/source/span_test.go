package source

import "testing"

func TestSpanCover(t *testing.T) {
	a := Span{File: 0, Start: 4, End: 10}
	b := Span{File: 0, Start: 8, End: 20}

	got := a.Cover(b)
	if got.Start != 4 || got.End != 20 {
		t.Fatalf("Cover = %v, want 0:4-20", got)
	}

	// обратный порядок должен давать тот же результат
	got = b.Cover(a)
	if got.Start != 4 || got.End != 20 {
		t.Fatalf("Cover (reversed) = %v, want 0:4-20", got)
	}
}

func TestSpanCoverDifferentFiles(t *testing.T) {
	a := Span{File: 0, Start: 4, End: 10}
	b := Span{File: 1, Start: 0, End: 2}

	got := a.Cover(b)
	if got != a {
		t.Fatalf("Cover across files = %v, want %v", got, a)
	}
}

func TestSpanEmpty(t *testing.T) {
	if !(Span{Start: 5, End: 5}).Empty() {
		t.Fatal("zero-length span should be empty")
	}
	if (Span{Start: 5, End: 6}).Empty() {
		t.Fatal("non-zero span should not be empty")
	}
}
