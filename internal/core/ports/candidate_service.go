package ports

import (
	"context"

	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
)

// CandidateFilter narrows ListCandidates. Text matches name or national id,
// case-insensitively; Status "all" or "" matches every status.
type CandidateFilter struct {
	Text   string
	Status string
}

// CandidateForm is the editable part of a candidate. Nil maps leave the
// stored scores or custom values untouched.
type CandidateForm struct {
	Name              string
	NationalID        string
	Age               string
	MicQuality        string
	Hours             string
	PrevJob           string
	CriminalRecord    string
	Experience        string
	License           string
	Tattoos           string
	IntentPolice      string
	NoObjectionCert   string
	IsFormerParamedic string
	Certificate       string
	Strengths         string
	Notes             string
	Status            string
	Scores            map[string]float64
	Custom            map[string]string
}

// CandidateCard is a candidate with its derived total.
type CandidateCard struct {
	domain.Candidate
	Total float64 `json:"total"`
}

type CandidateService interface {
	ListCandidates(ctx context.Context, filter CandidateFilter) ([]CandidateCard, error)
	RecentlyUpdated(ctx context.Context, limit int) ([]CandidateCard, error)
	GetCandidate(ctx context.Context, id string) (*CandidateCard, error)
	CreateCandidate(ctx context.Context, actor *domain.Session) (*domain.Candidate, error)
	SaveCandidate(ctx context.Context, actor *domain.Session, id string, form CandidateForm) (*CandidateCard, error)
	DeleteCandidate(ctx context.Context, actor *domain.Session, id string) error
	Summary(ctx context.Context, id string) (string, error)
	// CopySummary returns the summary and records the copy in the audit log.
	CopySummary(ctx context.Context, actor *domain.Session, id string) (string, error)
	Schema(ctx context.Context) (domain.Schema, error)
}
