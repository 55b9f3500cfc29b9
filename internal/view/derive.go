package view

import (
	"strings"

	"github.com/edvin/partners/internal/model"
)

const (
	// PageSize is the number of rows shown per table page.
	PageSize = 5

	descriptionWords = 20
	tokenLimit       = 15
)

// FilterByName keeps the partners whose name contains term, ignoring case.
// An empty term keeps everything.
func FilterByName(partners []model.Partner, term string) []model.Partner {
	if term == "" {
		return partners
	}
	needle := strings.ToLower(term)
	var out []model.Partner
	for _, p := range partners {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			out = append(out, p)
		}
	}
	return out
}

// PageCount is ceil(total / PageSize).
func PageCount(total int) int {
	return (total + PageSize - 1) / PageSize
}

// PageSlice returns the rows of page index. Out-of-range pages are empty.
func PageSlice(partners []model.Partner, index int) []model.Partner {
	start := index * PageSize
	if index < 0 || start >= len(partners) {
		return nil
	}
	end := min(start+PageSize, len(partners))
	return partners[start:end]
}

// PageLink is one pagination control.
type PageLink struct {
	Index    int
	Disabled bool
}

// Controls are the first/previous/next/last pagination buttons.
type Controls struct {
	First PageLink
	Prev  PageLink
	Next  PageLink
	Last  PageLink
}

// NewControls builds the pagination controls for page index of pageCount.
// First and previous are disabled on page 0; next and last on the last page.
func NewControls(index, pageCount int) Controls {
	atStart := index == 0
	atEnd := index >= pageCount-1
	return Controls{
		First: PageLink{Index: 0, Disabled: atStart},
		Prev:  PageLink{Index: index - 1, Disabled: atStart},
		Next:  PageLink{Index: index + 1, Disabled: atEnd},
		Last:  PageLink{Index: pageCount - 1, Disabled: atEnd},
	}
}

// Row is a partner prepared for display.
type Row struct {
	Partner     model.Partner
	Description string
	Clients     string
	Projects    string
}

func newRow(p model.Partner) Row {
	return Row{
		Partner:     p,
		Description: model.TruncateWords(p.Description, descriptionWords),
		Clients:     model.JoinTokens(p.Clients, tokenLimit),
		Projects:    model.JoinTokens(p.Projects, tokenLimit),
	}
}

// Listing is the filtered, paginated view of a collection.
type Listing struct {
	Rows      []Row
	Items     []model.Partner
	PageIndex int
	PageCount int
	Total     int
	Controls  Controls
}

// BuildListing runs the filter and pagination pipeline.
func BuildListing(partners []model.Partner, filter string, index int) Listing {
	filtered := FilterByName(partners, filter)
	count := PageCount(len(filtered))
	items := PageSlice(filtered, index)

	rows := make([]Row, len(items))
	for i, p := range items {
		rows[i] = newRow(p)
	}
	if items == nil {
		items = []model.Partner{}
	}

	return Listing{
		Rows:      rows,
		Items:     items,
		PageIndex: index,
		PageCount: count,
		Total:     len(filtered),
		Controls:  NewControls(index, count),
	}
}
