package model

import (
	"slices"
	"strings"
	"time"
)

// CreatedAtLayout is the ISO-8601 form used for locally stamped records.
const CreatedAtLayout = "2006-01-02T15:04:05.000Z"

type Partner struct {
	ID            string  `json:"id"`
	CreatedAt     string  `json:"createdAt"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	RepositoryGit string  `json:"repositoryGit"`
	URLDoc        string  `json:"urlDoc"`
	Clients       []Token `json:"clients"`
	Projects      []Token `json:"projects"`
}

// PartnerInput is the create payload: a Partner without its id.
type PartnerInput struct {
	CreatedAt     string  `json:"createdAt"`
	Name          string  `json:"name" validate:"required"`
	Description   string  `json:"description"`
	RepositoryGit string  `json:"repositoryGit"`
	URLDoc        string  `json:"urlDoc"`
	Clients       []Token `json:"clients"`
	Projects      []Token `json:"projects"`
}

// NewBlankPartner returns the empty draft shown when the add form opens.
func NewBlankPartner(id string, now time.Time) Partner {
	return Partner{
		ID:        id,
		CreatedAt: now.UTC().Format(CreatedAtLayout),
		Clients:   []Token{},
		Projects:  []Token{},
	}
}

// Input drops the id so the remote store can assign its own.
func (p Partner) Input() PartnerInput {
	return PartnerInput{
		CreatedAt:     p.CreatedAt,
		Name:          p.Name,
		Description:   p.Description,
		RepositoryGit: p.RepositoryGit,
		URLDoc:        p.URLDoc,
		Clients:       slices.Clone(p.Clients),
		Projects:      slices.Clone(p.Projects),
	}
}

// Clone returns a copy that shares no slices with p.
func (p Partner) Clone() Partner {
	p.Clients = slices.Clone(p.Clients)
	p.Projects = slices.Clone(p.Projects)
	return p
}

// ClonePartners deep-copies a collection.
func ClonePartners(ps []Partner) []Partner {
	out := make([]Partner, len(ps))
	for i, p := range ps {
		out[i] = p.Clone()
	}
	return out
}

// TruncateWords keeps the first max whitespace-separated words of text and
// appends "..." when anything was cut.
func TruncateWords(text string, max int) string {
	words := strings.Fields(text)
	if len(words) <= max {
		return text
	}
	return strings.Join(words[:max], " ") + "..."
}

// JoinTokens renders at most limit tokens separated by ", ".
func JoinTokens(tokens []Token, limit int) string {
	if len(tokens) > limit {
		tokens = tokens[:limit]
	}
	parts := make([]string, len(tokens))
	for i, t := range tokens {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
