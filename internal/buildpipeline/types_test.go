package buildpipeline

import (
	"testing"
	"time"
)

func TestTimings(t *testing.T) {
	var tm Timings
	if tm.Has(StageParse) {
		t.Fatal("fresh timings must be empty")
	}
	tm.Set(StageParse, 10*time.Millisecond)
	tm.Set(StageAnalyze, 30*time.Millisecond)

	if !tm.Has(StageParse) || tm.Duration(StageParse) != 10*time.Millisecond {
		t.Fatalf("parse duration = %v", tm.Duration(StageParse))
	}
	if got := tm.Sum(StageParse, StageAnalyze); got != 40*time.Millisecond {
		t.Fatalf("sum = %v", got)
	}
	// nil-приёмник безопасен
	var nilTm *Timings
	nilTm.Set(StageLoad, time.Second)
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	sink := ChannelSink{Ch: ch}
	sink.OnEvent(Event{Class: "Pawn", Stage: StageAnalyze, Status: StatusDone})
	ev := <-ch
	if ev.Class != "Pawn" || ev.Status != StatusDone {
		t.Fatalf("event = %+v", ev)
	}
	// нулевой канал — no-op
	ChannelSink{}.OnEvent(Event{})
	NopSink{}.OnEvent(Event{})
}
