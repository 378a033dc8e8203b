package mongodb

import (
	"strings"
	"testing"
)

func TestFormatCommandForTrace(t *testing.T) {
	got := formatCommandForTrace("  {\"find\":   \"athletes\",\n\t\"filter\": {} }  ")
	if got != "{\"find\": \"athletes\", \"filter\": {} }" {
		t.Fatalf("unexpected normalized command: %q", got)
	}

	long := strings.Repeat("x", maxTracedCommandLength+10)
	trimmed := formatCommandForTrace(long)
	if len(trimmed) != maxTracedCommandLength+3 || !strings.HasSuffix(trimmed, "...") {
		t.Fatalf("expected truncated command, got len=%d", len(trimmed))
	}
}

func TestReviewPipelineStages(t *testing.T) {
	pipeline := reviewPipeline(10, 5)

	want := []string{"$sort", "$skip", "$limit", "$lookup", "$lookup"}
	if len(pipeline) != len(want) {
		t.Fatalf("expected %d stages, got %d", len(want), len(pipeline))
	}
	for i, stage := range pipeline {
		if stage[0].Key != want[i] {
			t.Fatalf("stage %d: got %s want %s", i, stage[0].Key, want[i])
		}
	}
	if pipeline[1][0].Value != int64(10) || pipeline[2][0].Value != int64(5) {
		t.Fatalf("unexpected skip/limit values: %v %v", pipeline[1][0].Value, pipeline[2][0].Value)
	}
}
