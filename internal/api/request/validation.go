package request

import (
	"fmt"
	"net/http"

	"github.com/edvin/partners/internal/view"
)

// maxFormBytes bounds a partner form submission.
const maxFormBytes = 1 << 20

func RequireID(s string) (string, error) {
	if s == "" {
		return "", fmt.Errorf("missing required ID")
	}
	return s, nil
}

// DecodePartnerForm reads the add or edit form. Fields are returned raw;
// trimming and token parsing happen when the form is applied.
func DecodePartnerForm(w http.ResponseWriter, r *http.Request) (view.PartnerForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return view.PartnerForm{}, fmt.Errorf("invalid form: %w", err)
	}
	return view.PartnerForm{
		Name:          r.PostForm.Get("name"),
		Description:   r.PostForm.Get("description"),
		RepositoryGit: r.PostForm.Get("repositoryGit"),
		URLDoc:        r.PostForm.Get("urlDoc"),
		Clients:       r.PostForm.Get("clients"),
		Projects:      r.PostForm.Get("projects"),
	}, nil
}

// DecodeSearch reads the search form's term as typed.
func DecodeSearch(r *http.Request) (string, error) {
	if err := r.ParseForm(); err != nil {
		return "", fmt.Errorf("invalid form: %w", err)
	}
	return r.PostForm.Get("q"), nil
}
