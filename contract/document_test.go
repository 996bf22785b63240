package contract

import (
	"bytes"
	"encoding/json"
	"testing"
)

func TestDocumentRoundTrip(t *testing.T) {
	original := Kuhn()
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := Load(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	redata, err := json.Marshal(decoded)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if !bytes.Equal(data, redata) {
		t.Error("round-trip changed the document encoding")
	}
}

// The start-of-hand bucket serializes as [] and the catch-all as null;
// the decoder must keep them distinct.
func TestHistoryBucketNullVersusEmpty(t *testing.T) {
	doc, err := Parse([]byte(`{
		"observation": {
			"history_buckets": [
				{"index": 0, "sequence": []},
				{"index": 1, "sequence": null}
			]
		}
	}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	buckets := doc.Observation.HistoryBuckets
	if buckets[0].Sequence == nil {
		t.Error("empty sequence decoded as nil, want non-nil empty slice")
	}
	if buckets[1].Sequence != nil {
		t.Errorf("null sequence decoded as %v, want nil", buckets[1].Sequence)
	}
}

func TestHistoryKey(t *testing.T) {
	cases := []struct {
		sequence []string
		want     string
	}{
		{nil, ""},
		{[]string{}, ""},
		{[]string{"check"}, "check"},
		{[]string{"check", "bet"}, "check|bet"},
	}
	for _, tc := range cases {
		if got := HistoryKey(tc.sequence); got != tc.want {
			t.Errorf("HistoryKey(%v) = %q, want %q", tc.sequence, got, tc.want)
		}
	}
}

func TestLookupHelpers(t *testing.T) {
	doc := Kuhn()

	if idx, ok := doc.PlayerIndex("player_1"); !ok || idx != 1 {
		t.Errorf("PlayerIndex(player_1) = %d, %v", idx, ok)
	}
	if _, ok := doc.PlayerIndex("player_9"); ok {
		t.Error("PlayerIndex should miss for undeclared player")
	}

	if idx, ok := doc.CardIndex("K"); !ok || idx != 2 {
		t.Errorf("CardIndex(K) = %d, %v", idx, ok)
	}

	seg, ok := doc.SegmentByName(SegmentPublicHistory)
	if !ok {
		t.Fatal("missing public history segment")
	}
	if seg.Offset != 3 || seg.Size != 5 {
		t.Errorf("history segment = %+v", seg)
	}
}

func TestCloneIsIndependent(t *testing.T) {
	original := Kuhn()
	clone := original.Clone()

	clone.Actions[0].Name = "mutated"
	clone.Entities.Cards[0] = "A"
	clone.LegalMasksByPhase[PhaseP0Act][0] = 0
	clone.Observation.HistoryBuckets[1].Sequence[0] = "mutated"

	if original.Actions[0].Name != "check_call" {
		t.Error("clone shares actions with original")
	}
	if original.Entities.Cards[0] != "J" {
		t.Error("clone shares card labels with original")
	}
	if original.LegalMasksByPhase[PhaseP0Act][0] != 1 {
		t.Error("clone shares masks with original")
	}
	if original.Observation.HistoryBuckets[1].Sequence[0] != "check" {
		t.Error("clone shares history buckets with original")
	}

	if clone.Observation.HistoryBuckets[4].Sequence != nil {
		t.Error("clone must preserve the nil catch-all sequence")
	}
}
