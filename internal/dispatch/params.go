package dispatch

// Input length limits, enforced before anything reaches the store.
const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
)

// Status is the three-valued completion filter accepted by List.
type Status string

const (
	StatusAll       Status = "all"
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// TaskRef addresses an existing task either by numeric id or by exact
// title. Exactly one form must be supplied; an empty ref is invalid.
type TaskRef struct {
	ID    int64
	Title string
}

func (r TaskRef) isZero() bool {
	return r.ID == 0 && r.Title == ""
}

// Operation is the closed set of dispatchable operations. Each variant
// carries its own typed parameters; there is no way to construct an
// unknown operation.
type Operation interface {
	isOperation()
}

// AddParams creates a new task for Owner.
type AddParams struct {
	Owner       int64
	Title       string
	Description string
	Priority    string
	Tags        []string
}

// ListParams queries Owner's tasks. Zero values mean "no filter";
// Status defaults to all, Limit and Offset are clamped downstream.
type ListParams struct {
	Owner     int64
	Status    Status
	Priority  string
	Search    string
	Tags      []string
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

// CompleteParams marks the referenced task complete. Repeating the call
// on an already completed task succeeds again.
type CompleteParams struct {
	Owner int64
	Ref   TaskRef
}

// DeleteParams removes the referenced task.
type DeleteParams struct {
	Owner int64
	Ref   TaskRef
}

// UpdateParams changes the referenced task. At least one field must be
// set; nil pointers (and a nil Tags slice) leave the stored value alone.
type UpdateParams struct {
	Owner       int64
	Ref         TaskRef
	Title       *string
	Description *string
	Priority    *string
	Tags        []string
}

func (AddParams) isOperation()      {}
func (ListParams) isOperation()     {}
func (CompleteParams) isOperation() {}
func (DeleteParams) isOperation()   {}
func (UpdateParams) isOperation()   {}
