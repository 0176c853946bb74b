package domain

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

// Status is the review outcome of a candidate.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusAccepted Status = "Accepted"
	StatusRejected Status = "Rejected"

	// StatusAll is the list-filter sentinel that matches every status.
	StatusAll = "all"
)

var statusAliases = map[string]Status{
	"pending":      StatusPending,
	"قيد المراجعة": StatusPending,
	"accepted":     StatusAccepted,
	"مقبول":        StatusAccepted,
	"rejected":     StatusRejected,
	"مرفوض":        StatusRejected,
}

// ParseStatus resolves a status name or alias. Anything else is Pending.
func ParseStatus(s string) Status {
	if st, ok := statusAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return st
	}
	return StatusPending
}

// UnmarshalJSON accepts aliases; unknown or non-string values decode as Pending.
func (s *Status) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		*s = StatusPending
		return nil
	}
	*s = ParseStatus(raw)
	return nil
}

// Candidate is one interviewed applicant.
type Candidate struct {
	ID                string             `json:"id"`
	NationalID        string             `json:"nationalId"`
	Name              string             `json:"name"`
	Age               string             `json:"age"`
	Interviewer       string             `json:"interviewer"`
	PrevJob           string             `json:"prevJob"`
	CriminalRecord    string             `json:"criminalRecord"`
	Experience        string             `json:"experience"`
	License           string             `json:"license"`
	Tattoos           string             `json:"tattoos"`
	IntentPolice      string             `json:"intentPolice"`
	NoObjectionCert   string             `json:"noObjectionCert"`
	IsFormerParamedic string             `json:"isFormerParamedic"`
	Certificate       string             `json:"certificate"`
	MicQuality        string             `json:"micQuality"`
	Hours             string             `json:"hours"`
	Strengths         string             `json:"strengths"`
	Notes             string             `json:"notes"`
	Status            Status             `json:"status"`
	UpdatedAt         *time.Time         `json:"updatedAt"`
	Scores            map[string]float64 `json:"scores"`
	Custom            map[string]string  `json:"custom"`
}

// Clone returns a deep copy.
func (c Candidate) Clone() Candidate {
	out := c
	if c.UpdatedAt != nil {
		t := *c.UpdatedAt
		out.UpdatedAt = &t
	}
	out.Scores = make(map[string]float64, len(c.Scores))
	for k, v := range c.Scores {
		out.Scores[k] = v
	}
	out.Custom = make(map[string]string, len(c.Custom))
	for k, v := range c.Custom {
		out.Custom[k] = v
	}
	return out
}

// ScoreItem is one capped scoring dimension.
type ScoreItem struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Max   float64 `json:"max"`
}

// Limit is the item's cap; a missing or non-positive max counts as 1.
func (s ScoreItem) Limit() float64 {
	if s.Max <= 0 || math.IsNaN(s.Max) || math.IsInf(s.Max, 0) {
		return 1
	}
	return s.Max
}

// Clamp bounds v into [0, Limit]. Non-finite input is 0.
func (s ScoreItem) Clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Max(0, math.Min(s.Limit(), v))
}

// Schema is the scoring rubric.
type Schema []ScoreItem

// Find returns the item for key.
func (s Schema) Find(key string) (ScoreItem, bool) {
	for _, item := range s {
		if item.Key == key {
			return item, true
		}
	}
	return ScoreItem{}, false
}

// MaxTotal is the highest total any candidate can reach.
func (s Schema) MaxTotal() float64 {
	var total float64
	for _, item := range s {
		total += item.Limit()
	}
	return total
}

// ComputeTotal sums the candidate's clamped score for every schema item.
// Missing scores count as 0.
func ComputeTotal(c Candidate, schema Schema) float64 {
	var total float64
	for _, item := range schema {
		total += item.Clamp(c.Scores[item.Key])
	}
	return total
}

// NewCandidate returns a blank Pending candidate with a zero score per schema item.
func NewCandidate(id, interviewer string, schema Schema) Candidate {
	c := Candidate{
		ID:          id,
		Interviewer: interviewer,
		Status:      StatusPending,
		Scores:      make(map[string]float64, len(schema)),
		Custom:      map[string]string{},
	}
	for _, item := range schema {
		c.Scores[item.Key] = 0
	}
	return c
}

// Normalize fills defaults left out by older stored data.
func (c *Candidate) Normalize() {
	if c.Status != StatusAccepted && c.Status != StatusRejected {
		c.Status = StatusPending
	}
	if c.Scores == nil {
		c.Scores = map[string]float64{}
	}
	if c.Custom == nil {
		c.Custom = map[string]string{}
	}
}
