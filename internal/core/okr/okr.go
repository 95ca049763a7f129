package okr

import "math"

// Attachment is opaque file metadata; the content itself is never stored.
type Attachment struct {
	Name     string `json:"name"`
	Size     int64  `json:"size,omitempty"`
	MimeType string `json:"type,omitempty"`
}

type Milestone struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Status      MilestoneStatus `json:"status"`
	Attachments []Attachment    `json:"attachments,omitempty"`
}

func NewMilestone(id, title string, attachments ...Attachment) *Milestone {
	return &Milestone{
		ID:          id,
		Title:       title,
		Status:      MilestoneToDo,
		Attachments: attachments,
	}
}

func (m *Milestone) SetStatus(status MilestoneStatus) {
	m.Status = status
}

func (m *Milestone) IsDone() bool {
	return m.Status == MilestoneDone
}

// KeyResult is owned independently of its objective: OwnerID need not be the
// objective owner or anyone in their reporting line.
type KeyResult struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	OwnerID    string          `json:"owner"`
	Status     KeyResultStatus `json:"status,omitempty"`
	Milestones []*Milestone    `json:"milestones"`
}

func (kr *KeyResult) FindMilestone(id string) *Milestone {
	if kr == nil {
		return nil
	}
	for _, m := range kr.Milestones {
		if m.ID == id {
			return m
		}
	}
	return nil
}

// DoneRatio is the share of milestones marked Done, 0 when there are none.
func (kr *KeyResult) DoneRatio() float64 {
	if kr == nil || len(kr.Milestones) == 0 {
		return 0
	}
	done := 0
	for _, m := range kr.Milestones {
		if m.IsDone() {
			done++
		}
	}
	return float64(done) / float64(len(kr.Milestones))
}

type Objective struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	OwnerID      string          `json:"owner"`
	Department   string          `json:"department,omitempty"`
	Status       ObjectiveStatus `json:"status"`
	Progress     float64         `json:"progress"`
	Target       float64         `json:"target"`
	Actual       float64         `json:"actual"`
	TotalScore   float64         `json:"total_score"`
	PlannedScore float64         `json:"planned_score"`
	ActualScore  float64         `json:"actual_score"`
	StartDate    string          `json:"start_date,omitempty"`
	EndDate      string          `json:"end_date,omitempty"`
	KeyResults   []*KeyResult    `json:"key_results"`
}

func (o *Objective) FindKeyResult(id string) *KeyResult {
	if o == nil {
		return nil
	}
	for _, kr := range o.KeyResults {
		if kr.ID == id {
			return kr
		}
	}
	return nil
}

// ProgressPercent is actual over target as a rounded percentage, 0 when no
// target is set.
func (o *Objective) ProgressPercent() int {
	if o == nil || o.Target == 0 {
		return 0
	}
	return int(math.Round(o.Actual / o.Target * 100))
}
