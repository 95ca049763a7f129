package objective

import (
	"context"
	"time"

	"github.com/frahmantamala/okr-dashboard/internal/core/okr"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
)

// Repository persists the objective tree and objective requests.
type Repository interface {
	Graph(ctx context.Context) (*okr.Graph, error)
	Create(ctx context.Context, objective *okr.Objective) error
	Delete(ctx context.Context, id string) error
	AddMilestone(ctx context.Context, keyResultID string, milestone *okr.Milestone) error
	UpdateMilestoneStatus(ctx context.Context, keyResultID, milestoneID string, status okr.MilestoneStatus) error
	CreateRequest(ctx context.Context, request *Request) error
	ListRequests(ctx context.Context) ([]Request, error)
}

// DirectorySource hands out the current organization snapshot.
type DirectorySource interface {
	Snapshot() *org.Directory
}

type RequestStatus string

const RequestPending RequestStatus = "pending"

// Request is a manager's proposal for a new objective, awaiting approval.
type Request struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	RequestedBy string        `json:"requested_by"`
	Status      RequestStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

// Filter narrows List and Export. Empty fields match everything.
type Filter struct {
	Search     string
	Status     okr.ObjectiveStatus
	Department string
	OwnerID    string
}

// ObjectiveView decorates an objective with display names and what the
// requesting actor may do with it.
type ObjectiveView struct {
	*okr.Objective
	OwnerName       string          `json:"owner_name,omitempty"`
	ProgressPercent int             `json:"progress_percent"`
	CanDelete       bool            `json:"can_delete"`
	KeyResults      []KeyResultView `json:"key_results"`
}

type KeyResultView struct {
	*okr.KeyResult
	OwnerName       string          `json:"owner_name,omitempty"`
	CanAddMilestone bool            `json:"can_add_milestone"`
	Milestones      []MilestoneView `json:"milestones"`
}

type MilestoneView struct {
	*okr.Milestone
	CanUpdate bool `json:"can_update"`
}

// Report buckets.
const (
	BucketAchieved    = "Achieved"
	BucketNotAchieved = "Not Achieved"
	BucketOnTrack     = "On Track"
	BucketAtRisk      = "At Risk"
)

const onTrackThreshold = 60

type DepartmentProgress struct {
	Department      string `json:"department"`
	Objectives      int    `json:"objectives"`
	AverageProgress int    `json:"average_progress"`
}

type Summary struct {
	Department         string               `json:"department"`
	TotalObjectives    int                  `json:"total_objectives"`
	AchievedObjectives int                  `json:"achieved_objectives"`
	OverallProgress    int                  `json:"overall_progress"`
	StatusCounts       map[string]int       `json:"status_counts"`
	Departments        []DepartmentProgress `json:"departments"`
}

// Bucket places an objective in a report bucket. Terminal statuses win;
// otherwise the stored progress decides between On Track and At Risk.
func Bucket(o *okr.Objective) string {
	switch o.Status {
	case okr.ObjectiveAchieved:
		return BucketAchieved
	case okr.ObjectiveNotAchieved:
		return BucketNotAchieved
	}
	if o.Progress >= onTrackThreshold {
		return BucketOnTrack
	}
	return BucketAtRisk
}
