// Package render maps dashboard payloads to view models. Every function is
// pure: no I/O, no clock reads, no shared state.
package render

import "github.com/ai-ikigai/admin-dashboard/internal/domain/dashboard"

// Status badge classes understood by the stylesheet (status-<class>).
const (
	BadgeActive    = "active"
	BadgeInactive  = "inactive"
	BadgePending   = "pending"
	BadgeSuspended = "suspended"
	BadgeCompleted = "completed"
	BadgeFailed    = "failed"
)

// View is the rendered content of one section container.
type View struct {
	Section   dashboard.SectionID
	Title     string
	CardTitle string
	Icon      string
	// ScrollTop asks the client to scroll to the top after the swap.
	ScrollTop     bool
	HeaderActions []Action
	Stats         []StatCard
	Filters       []FilterDef
	Tables        []Table
	Forms         []FieldGroup
}

// ContainerID is the DOM id of the section container.
func (v View) ContainerID() string { return v.Section.ContainerID() }

// Empty reports whether the view has not been rendered yet.
func (v View) Empty() bool { return v.Section == "" }

// StatCard is one KPI tile.
type StatCard struct {
	ID    string
	Icon  string
	Value string
	Label string
}

// Table is a titled data table.
type Table struct {
	Title   string
	Headers []string
	Rows    []Row
	Empty   string
}

// Row is one table row. ID is the record id the row actions refer to.
type Row struct {
	ID      string
	Cells   []Cell
	Actions []Action
}

// Cell is one table cell. A cell with a Badge renders as a status pill.
type Cell struct {
	Text   string
	Strong bool
	Trend  bool
	Badge  *Badge
}

// Badge is a status pill.
type Badge struct {
	Class string
	Label string
	Dot   bool
}

// Action is a button bound to an HTTP route. Confirm, when set, is shown
// before the request is sent; Prompt asks for a value sent as the
// HX-Prompt header.
type Action struct {
	Name     string
	Icon     string
	Label    string
	Method   string
	URL      string
	Confirm  string
	Prompt   string
	Values   map[string]string
	Mutating bool
	Download bool
}

// Post reports whether the action is sent as a POST.
func (a Action) Post() bool { return a.Method == MethodPost }

// Route methods used by actions.
const (
	MethodGet  = "get"
	MethodPost = "post"
)

// FilterDef describes one control of the filters bar.
type FilterDef struct {
	Name        string
	Kind        string
	Placeholder string
	Value       string
	Options     []FilterOption
}

// Filter control kinds.
const (
	FilterSearch = "search"
	FilterSelect = "select"
)

// FilterOption is one option of a select filter.
type FilterOption struct {
	Value    string
	Label    string
	Selected bool
}

// FieldGroup is a titled group of form fields.
type FieldGroup struct {
	Title  string
	Fields []Field
}

// Field is one labelled input.
type Field struct {
	Name  string
	Label string
	Type  string
	Value string
}

// Detail is the side panel of a single record.
type Detail struct {
	Title   string
	Entries []DetailEntry
	Actions []Action
}

// DetailEntry is one label/value line of a detail panel.
type DetailEntry struct {
	Label string
	Value string
	Badge *Badge
}
