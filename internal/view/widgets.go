package view

// Level is the severity of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Notification is a transient toast shown once.
type Notification struct {
	Level   Level
	Message string
}

// Modal is a show/hide overlay. Its body renders only while Open; the close
// control posts to CloseAction.
type Modal struct {
	Open        bool
	Title       string
	CloseAction string
}

// Skeleton is the placeholder grid shown while the collection loads.
type Skeleton struct {
	Rows    int
	Columns int
}

// DefaultSkeleton is the 8x5 table placeholder.
var DefaultSkeleton = Skeleton{Rows: 8, Columns: 5}

// RowIndexes and ColumnIndexes let templates range over the grid.
func (s Skeleton) RowIndexes() []int { return seq(s.Rows) }

func (s Skeleton) ColumnIndexes() []int { return seq(s.Columns) }

func seq(n int) []int {
	out := make([]int, max(n, 0))
	for i := range out {
		out[i] = i
	}
	return out
}

// SearchInput is the controlled search field. Every submitted value is
// reported to the table as-is.
type SearchInput struct {
	Value       string
	Placeholder string
	Action      string
}
