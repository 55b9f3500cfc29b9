package view

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/edvin/partners/internal/model"
)

var validate = validator.New()

// PartnerForm is the raw input of the add and edit forms. Clients and
// Projects are comma-separated.
type PartnerForm struct {
	Name          string
	Description   string
	RepositoryGit string
	URLDoc        string
	Clients       string
	Projects      string
}

// Apply writes the form fields onto p.
func (f PartnerForm) Apply(p model.Partner) model.Partner {
	p.Name = strings.TrimSpace(f.Name)
	p.Description = f.Description
	p.RepositoryGit = strings.TrimSpace(f.RepositoryGit)
	p.URLDoc = strings.TrimSpace(f.URLDoc)
	p.Clients = model.ParseTokenList(f.Clients)
	p.Projects = model.ParseTokenList(f.Projects)
	return p
}

// ApplyEdit writes the form onto an existing partner. A token list whose
// text still matches what FormFor rendered is kept as stored, so strings
// holding commas or digits keep their JSON kind.
func (f PartnerForm) ApplyEdit(p model.Partner) model.Partner {
	shown := FormFor(p)
	clients, projects := p.Clients, p.Projects
	p = f.Apply(p)
	if f.Clients == shown.Clients {
		p.Clients = clients
	}
	if f.Projects == shown.Projects {
		p.Projects = projects
	}
	return p
}

// FormFor fills a form from an existing partner.
func FormFor(p model.Partner) PartnerForm {
	return PartnerForm{
		Name:          p.Name,
		Description:   p.Description,
		RepositoryGit: p.RepositoryGit,
		URLDoc:        p.URLDoc,
		Clients:       model.JoinTokens(p.Clients, len(p.Clients)),
		Projects:      model.JoinTokens(p.Projects, len(p.Projects)),
	}
}

// validateCreate checks the create payload and returns a user-facing message.
func validateCreate(input model.PartnerInput) error {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
