package domain

import (
	"encoding/json"
	"math"
	"testing"
)

func TestComputeTotal(t *testing.T) {
	schema := Schema{
		{Key: "a", Max: 2},
		{Key: "b", Max: 3},
		{Key: "c", Max: 0},
	}
	cases := []struct {
		name   string
		scores map[string]float64
		want   float64
	}{
		{"empty", nil, 0},
		{"within bounds", map[string]float64{"a": 1, "b": 2.5}, 3.5},
		{"clamped high", map[string]float64{"a": 10, "b": 10, "c": 10}, 6},
		{"clamped low", map[string]float64{"a": -4, "b": 1}, 1},
		{"non-finite", map[string]float64{"a": math.NaN(), "b": math.Inf(1)}, 0},
		{"unknown keys ignored", map[string]float64{"zzz": 99}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeTotal(Candidate{Scores: tc.scores}, schema)
			if got != tc.want {
				t.Fatalf("want %v, got %v", tc.want, got)
			}
			if got < 0 || got > schema.MaxTotal() {
				t.Fatalf("total %v outside [0, %v]", got, schema.MaxTotal())
			}
		})
	}
}

func TestComputeTotal_Monotonic(t *testing.T) {
	schema := Schema{{Key: "a", Max: 5}, {Key: "b", Max: 5}}
	prev := -1.0
	for v := -2.0; v <= 7; v += 0.5 {
		got := ComputeTotal(Candidate{Scores: map[string]float64{"a": v, "b": 1}}, schema)
		if got < prev {
			t.Fatalf("total decreased from %v to %v at score %v", prev, got, v)
		}
		prev = got
	}
}

func TestSchema_MaxTotal(t *testing.T) {
	schema := Schema{{Key: "a", Max: 2}, {Key: "b"}, {Key: "c", Max: math.Inf(1)}}
	if got := schema.MaxTotal(); got != 4 {
		t.Fatalf("want 4, got %v", got)
	}
}

func TestNewCandidate(t *testing.T) {
	c := NewCandidate("id1", "rev", Schema{{Key: "a", Max: 1}})
	if c.Status != StatusPending || c.UpdatedAt != nil || c.Interviewer != "rev" {
		t.Fatalf("unexpected candidate %+v", c)
	}
	if v, ok := c.Scores["a"]; !ok || v != 0 {
		t.Fatalf("expected zero score for schema key, got %+v", c.Scores)
	}
}

func TestCandidate_CloneIsDeep(t *testing.T) {
	c := Candidate{Scores: map[string]float64{"a": 1}, Custom: map[string]string{"k": "v"}}
	clone := c.Clone()
	clone.Scores["a"] = 2
	clone.Custom["k"] = "w"
	if c.Scores["a"] != 1 || c.Custom["k"] != "v" {
		t.Fatalf("clone shares maps with the original")
	}
}

func TestParseStatus(t *testing.T) {
	cases := map[string]Status{
		"Accepted":     StatusAccepted,
		"rejected":     StatusRejected,
		"مقبول":        StatusAccepted,
		"مرفوض":        StatusRejected,
		"قيد المراجعة": StatusPending,
		"":             StatusPending,
		"maybe":        StatusPending,
	}
	for in, want := range cases {
		if got := ParseStatus(in); got != want {
			t.Fatalf("ParseStatus(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestStatus_UnmarshalJSON(t *testing.T) {
	cases := map[string]Status{
		`"accepted"`: StatusAccepted,
		`"unknown"`:  StatusPending,
		`7`:          StatusPending,
		`{"a":1}`:    StatusPending,
	}
	for in, want := range cases {
		var got Status
		if err := json.Unmarshal([]byte(in), &got); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if got != want {
			t.Fatalf("unmarshal %s = %q, want %q", in, got, want)
		}
	}
}

func TestCandidate_UnmarshalNormalizesStatus(t *testing.T) {
	var c Candidate
	if err := json.Unmarshal([]byte(`{"id":"x","status":"مرفوض"}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Status != StatusRejected {
		t.Fatalf("expected Rejected, got %s", c.Status)
	}
	if err := json.Unmarshal([]byte(`{"id":"x","status":7}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if c.Status != StatusPending {
		t.Fatalf("expected Pending for non-string status, got %s", c.Status)
	}
}
