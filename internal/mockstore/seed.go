package mockstore

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/edvin/partners/internal/model"
)

type seedFile struct {
	Partners []seedEntry `yaml:"partners"`
}

type seedEntry struct {
	ID            string `yaml:"id"`
	CreatedAt     string `yaml:"created_at"`
	Name          string `yaml:"name"`
	Description   string `yaml:"description"`
	RepositoryGit string `yaml:"repository_git"`
	URLDoc        string `yaml:"url_doc"`
	Clients       []any  `yaml:"clients"`
	Projects      []any  `yaml:"projects"`
}

// LoadSeed reads partner records from a YAML seed file.
func LoadSeed(path string) ([]model.Partner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return ParseSeed(data)
}

// ParseSeed decodes YAML seed data. Entries without an id get their
// one-based position as id.
func ParseSeed(data []byte) ([]model.Partner, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}

	partners := make([]model.Partner, 0, len(f.Partners))
	seen := map[string]bool{}
	for i, e := range f.Partners {
		id := e.ID
		if id == "" {
			id = strconv.Itoa(i + 1)
		}
		if seen[id] {
			return nil, fmt.Errorf("seed entry %d: duplicate id %q", i, id)
		}
		seen[id] = true

		clients, err := seedTokens(e.Clients)
		if err != nil {
			return nil, fmt.Errorf("seed entry %q clients: %w", id, err)
		}
		projects, err := seedTokens(e.Projects)
		if err != nil {
			return nil, fmt.Errorf("seed entry %q projects: %w", id, err)
		}

		partners = append(partners, model.Partner{
			ID:            id,
			CreatedAt:     e.CreatedAt,
			Name:          e.Name,
			Description:   e.Description,
			RepositoryGit: e.RepositoryGit,
			URLDoc:        e.URLDoc,
			Clients:       clients,
			Projects:      projects,
		})
	}
	return partners, nil
}

func seedTokens(values []any) ([]model.Token, error) {
	tokens := make([]model.Token, 0, len(values))
	for _, v := range values {
		switch v := v.(type) {
		case string:
			tokens = append(tokens, model.StringToken(v))
		case int:
			tokens = append(tokens, model.ParseToken(strconv.Itoa(v)))
		case float64:
			tokens = append(tokens, model.ParseToken(strconv.FormatFloat(v, 'f', -1, 64)))
		default:
			return nil, fmt.Errorf("unsupported token %v (%T)", v, v)
		}
	}
	return tokens, nil
}
