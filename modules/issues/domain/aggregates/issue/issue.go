package issue

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pinpoint-collective/pinpoint/modules/issues/domain/entities/status"
	"github.com/pinpoint-collective/pinpoint/modules/machines/domain/aggregates/machine"
	"github.com/pinpoint-collective/pinpoint/pkg/repo"
)

// Priority is how urgently the collective wants the problem gone.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Severity is how badly the problem hurts gameplay, from a scuffed decal to
// a machine nobody can play.
type Severity string

const (
	SeverityCosmetic   Severity = "cosmetic"
	SeverityMinor      Severity = "minor"
	SeverityMajor      Severity = "major"
	SeverityUnplayable Severity = "unplayable"
)

func (s Severity) IsValid() bool {
	switch s {
	case SeverityCosmetic, SeverityMinor, SeverityMajor, SeverityUnplayable:
		return true
	}
	return false
}

// Consistency is how often the problem shows up on the machine.
type Consistency string

const (
	ConsistencyAlways       Consistency = "always"
	ConsistencyIntermittent Consistency = "intermittent"
	ConsistencyOnce         Consistency = "once"
)

func (c Consistency) IsValid() bool {
	switch c {
	case ConsistencyAlways, ConsistencyIntermittent, ConsistencyOnce:
		return true
	}
	return false
}

type Option func(i *Issue)

func WithID(id string) Option {
	return func(i *Issue) {
		i.id = id
	}
}

func WithDescription(description string) Option {
	return func(i *Issue) {
		i.description = description
	}
}

func WithPriority(p Priority) Option {
	return func(i *Issue) {
		i.priority = p
	}
}

func WithSeverity(s Severity) Option {
	return func(i *Issue) {
		i.severity = s
	}
}

func WithConsistency(c Consistency) Option {
	return func(i *Issue) {
		i.consistency = c
	}
}

func WithReporterID(userID string) Option {
	return func(i *Issue) {
		i.reporterID = userID
	}
}

func WithReporterName(name string) Option {
	return func(i *Issue) {
		i.reporterName = name
	}
}

func WithAssigneeID(userID string) Option {
	return func(i *Issue) {
		i.assigneeID = userID
	}
}

func WithResolvedAt(t *time.Time) Option {
	return func(i *Issue) {
		i.resolvedAt = t
	}
}

func WithMachine(m *machine.Machine) Option {
	return func(i *Issue) {
		i.machine = m
	}
}

func WithStatus(st *status.Status) Option {
	return func(i *Issue) {
		i.status = st
	}
}

func WithCreatedAt(t time.Time) Option {
	return func(i *Issue) {
		i.createdAt = t
	}
}

func WithUpdatedAt(t time.Time) Option {
	return func(i *Issue) {
		i.updatedAt = t
	}
}

// Issue is one reported problem on one machine. The reporter is a member
// when the report came in through the API and empty for anonymous QR
// reports, which may carry a free-text reporter name instead.
type Issue struct {
	id             string
	organizationID string
	machineID      string
	statusID       string
	priority       Priority
	severity       Severity
	consistency    Consistency
	title          string
	description    string
	reporterID     string
	reporterName   string
	assigneeID     string
	resolvedAt     *time.Time
	machine        *machine.Machine
	status         *status.Status
	createdAt      time.Time
	updatedAt      time.Time
}

func New(organizationID, machineID, statusID, title string, opts ...Option) *Issue {
	i := &Issue{
		id:             uuid.NewString(),
		organizationID: organizationID,
		machineID:      machineID,
		statusID:       statusID,
		priority:       PriorityMedium,
		severity:       SeverityMinor,
		consistency:    ConsistencyIntermittent,
		title:          title,
		createdAt:      time.Now(),
		updatedAt:      time.Now(),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

func (i *Issue) ID() string {
	return i.id
}

func (i *Issue) OrganizationID() string {
	return i.organizationID
}

func (i *Issue) MachineID() string {
	return i.machineID
}

func (i *Issue) StatusID() string {
	return i.statusID
}

func (i *Issue) Priority() Priority {
	return i.priority
}

func (i *Issue) Severity() Severity {
	return i.severity
}

func (i *Issue) Consistency() Consistency {
	return i.consistency
}

func (i *Issue) Title() string {
	return i.title
}

func (i *Issue) Description() string {
	return i.description
}

// ReporterID returns the member who filed the issue, empty for anonymous QR
// reports.
func (i *Issue) ReporterID() string {
	return i.reporterID
}

// ReporterName returns the free-text name an anonymous reporter left, if
// any.
func (i *Issue) ReporterName() string {
	return i.reporterName
}

func (i *Issue) AssigneeID() string {
	return i.assigneeID
}

func (i *Issue) ResolvedAt() *time.Time {
	return i.resolvedAt
}

// Machine returns the machine when the repository loaded it, nil otherwise.
func (i *Issue) Machine() *machine.Machine {
	return i.machine
}

// Status returns the status when the repository loaded it, nil otherwise.
func (i *Issue) Status() *status.Status {
	return i.status
}

func (i *Issue) CreatedAt() time.Time {
	return i.createdAt
}

func (i *Issue) UpdatedAt() time.Time {
	return i.updatedAt
}

func (i *Issue) UpdateDetails(title, description string, p Priority, s Severity, c Consistency) {
	i.title = title
	i.description = description
	i.priority = p
	i.severity = s
	i.consistency = c
	i.updatedAt = time.Now()
}

func (i *Issue) Assign(userID string) {
	i.assigneeID = userID
	i.updatedAt = time.Now()
}

func (i *Issue) Unassign() {
	i.assigneeID = ""
	i.updatedAt = time.Now()
}

// ChangeStatus moves the issue into the given status. Entering a RESOLVED
// category stamps the resolution time once; leaving it clears the stamp.
func (i *Issue) ChangeStatus(st *status.Status) {
	i.statusID = st.ID()
	i.status = st
	if st.Category() == status.CategoryResolved {
		if i.resolvedAt == nil {
			now := time.Now()
			i.resolvedAt = &now
		}
	} else {
		i.resolvedAt = nil
	}
	i.updatedAt = time.Now()
}

// Snapshot is the JSON image of the issue's mutable state. The activity feed
// diffs the images before and after a write; Restore maps a patched image
// back onto the aggregate.
type Snapshot struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Severity    string     `json:"severity"`
	Consistency string     `json:"consistency"`
	StatusID    string     `json:"status_id"`
	AssigneeID  string     `json:"assignee_id"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

func (i *Issue) Snapshot() Snapshot {
	return Snapshot{
		Title:       i.title,
		Description: i.description,
		Priority:    string(i.priority),
		Severity:    string(i.severity),
		Consistency: string(i.consistency),
		StatusID:    i.statusID,
		AssigneeID:  i.assigneeID,
		ResolvedAt:  i.resolvedAt,
	}
}

// Restore writes a snapshot back onto the issue verbatim, including the
// resolution stamp. The caller resolves the snapshot's status row and passes
// it along so the loaded reference stays consistent.
func (i *Issue) Restore(snap Snapshot, st *status.Status) {
	i.title = snap.Title
	i.description = snap.Description
	i.priority = Priority(snap.Priority)
	i.severity = Severity(snap.Severity)
	i.consistency = Consistency(snap.Consistency)
	i.statusID = snap.StatusID
	i.status = st
	i.assigneeID = snap.AssigneeID
	i.resolvedAt = snap.ResolvedAt
	i.updatedAt = time.Now()
}

type Field int

const (
	TitleField Field = iota
	PriorityField
	SeverityField
	StatusField
	MachineField
	AssigneeField
	ReporterField
	CreatedAtField
	UpdatedAtField
	ResolvedAtField
)

type Filter struct {
	Column Field
	Filter repo.Filter
}

type FindParams struct {
	Limit   int
	Offset  int
	Search  string
	SortBy  repo.SortBy[Field]
	Filters []Filter
}

type Repository interface {
	Count(ctx context.Context, params *FindParams) (int64, error)
	CountByStatus(ctx context.Context, statusID string) (int64, error)
	GetPaginated(ctx context.Context, params *FindParams) ([]*Issue, error)
	GetByID(ctx context.Context, id string) (*Issue, error)
	// GetByIDs looks rows up across organizations so bulk validation can
	// tell a missing target from one that belongs to another organization.
	GetByIDs(ctx context.Context, ids []string) ([]*Issue, error)
	GetByMachine(ctx context.Context, machineID string) ([]*Issue, error)
	Create(ctx context.Context, data *Issue) (*Issue, error)
	Update(ctx context.Context, data *Issue) error
	Delete(ctx context.Context, id string) error
}
