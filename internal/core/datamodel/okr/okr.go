package okr

import "time"

type Objective struct {
	ID           string    `gorm:"column:id;primaryKey"`
	Title        string    `gorm:"column:title;not null"`
	OwnerID      string    `gorm:"column:owner_id;not null"`
	Department   string    `gorm:"column:department"`
	Status       string    `gorm:"column:status;not null;default:pending"`
	Progress     float64   `gorm:"column:progress"`
	Target       float64   `gorm:"column:target"`
	Actual       float64   `gorm:"column:actual"`
	TotalScore   float64   `gorm:"column:total_score"`
	PlannedScore float64   `gorm:"column:planned_score"`
	ActualScore  float64   `gorm:"column:actual_score"`
	StartDate    string    `gorm:"column:start_date"`
	EndDate      string    `gorm:"column:end_date"`
	Position     int       `gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`

	KeyResults []KeyResult `gorm:"foreignKey:ObjectiveID;references:ID"`
}

func (Objective) TableName() string {
	return "objectives"
}

type KeyResult struct {
	ID          string    `gorm:"column:id;primaryKey"`
	ObjectiveID string    `gorm:"column:objective_id;not null"`
	Title       string    `gorm:"column:title;not null"`
	OwnerID     string    `gorm:"column:owner_id;not null"`
	Status      string    `gorm:"column:status"`
	Position    int       `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Milestones []Milestone `gorm:"foreignKey:KeyResultID;references:ID"`
}

func (KeyResult) TableName() string {
	return "key_results"
}

// Milestone ids are unique per key result only, hence the composite key.
type Milestone struct {
	KeyResultID string    `gorm:"column:key_result_id;primaryKey"`
	ID          string    `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Status      string    `gorm:"column:status;not null;default:To-Do"`
	Position    int       `gorm:"column:position;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Milestone) TableName() string {
	return "milestones"
}

type Attachment struct {
	KeyResultID string `gorm:"column:key_result_id;primaryKey"`
	MilestoneID string `gorm:"column:milestone_id;primaryKey"`
	Position    int    `gorm:"column:position;primaryKey"`
	Name        string `gorm:"column:name;not null"`
	Size        int64  `gorm:"column:size"`
	MimeType    string `gorm:"column:mime_type"`
}

func (Attachment) TableName() string {
	return "milestone_attachments"
}

type ObjectiveRequest struct {
	ID          string    `gorm:"column:id;primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description"`
	RequestedBy string    `gorm:"column:requested_by;not null"`
	Status      string    `gorm:"column:status;not null;default:pending"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (ObjectiveRequest) TableName() string {
	return "objective_requests"
}
