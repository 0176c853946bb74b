package handler

import (
	"github.com/snimarbadr-source/health-interviews/internal/core/domain"
	"github.com/snimarbadr-source/health-interviews/internal/core/ports"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token   string          `json:"token"`
	Session *domain.Session `json:"session"`
}

type logoutRequest struct {
	Confirmed bool `json:"confirmed"`
}

type logoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

type sessionResponse struct {
	Session *domain.Session `json:"session"`
	View    domain.View     `json:"view"`
}

// --- Candidates ---

type candidateRequest struct {
	Name              string             `json:"name"              validate:"max=200"`
	NationalID        string             `json:"nationalId"        validate:"max=64"`
	Age               string             `json:"age"`
	MicQuality        string             `json:"micQuality"`
	Hours             string             `json:"hours"`
	PrevJob           string             `json:"prevJob"`
	CriminalRecord    string             `json:"criminalRecord"`
	Experience        string             `json:"experience"`
	License           string             `json:"license"`
	Tattoos           string             `json:"tattoos"`
	IntentPolice      string             `json:"intentPolice"`
	NoObjectionCert   string             `json:"noObjectionCert"`
	IsFormerParamedic string             `json:"isFormerParamedic"`
	Certificate       string             `json:"certificate"`
	Strengths         string             `json:"strengths"`
	Notes             string             `json:"notes"`
	Status            string             `json:"status"`
	Scores            map[string]float64 `json:"scores"`
	Custom            map[string]string  `json:"custom"`
}

func (r candidateRequest) toForm() ports.CandidateForm {
	return ports.CandidateForm{
		Name:              r.Name,
		NationalID:        r.NationalID,
		Age:               r.Age,
		MicQuality:        r.MicQuality,
		Hours:             r.Hours,
		PrevJob:           r.PrevJob,
		CriminalRecord:    r.CriminalRecord,
		Experience:        r.Experience,
		License:           r.License,
		Tattoos:           r.Tattoos,
		IntentPolice:      r.IntentPolice,
		NoObjectionCert:   r.NoObjectionCert,
		IsFormerParamedic: r.IsFormerParamedic,
		Certificate:       r.Certificate,
		Strengths:         r.Strengths,
		Notes:             r.Notes,
		Status:            r.Status,
		Scores:            r.Scores,
		Custom:            r.Custom,
	}
}

type candidateListResponse struct {
	Items []ports.CandidateCard `json:"items"`
	Count int                   `json:"count"`
}

type summaryResponse struct {
	Text string `json:"text"`
}

type schemaResponse struct {
	Items    domain.Schema `json:"items"`
	MaxTotal float64       `json:"max_total"`
}

// --- Users ---

type addUserRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"`
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

type userListResponse struct {
	Items []ports.UserRow `json:"items"`
	Roles []domain.Role   `json:"roles"`
}

// --- Audit ---

type auditListResponse struct {
	Items []domain.AuditEntry `json:"items"`
	Count int                 `json:"count"`
}

// --- Fields ---

type fieldRequest struct {
	Label   string   `json:"label"   validate:"required,max=100"`
	Type    string   `json:"type"`
	Options []string `json:"options"`
}

type fieldListResponse struct {
	Items []domain.CustomField `json:"items"`
}
