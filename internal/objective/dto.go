package objective

import (
	"fmt"
	"time"

	"github.com/frahmantamala/okr-dashboard/internal"
	"github.com/frahmantamala/okr-dashboard/internal/core/common/validation"
	"github.com/frahmantamala/okr-dashboard/internal/core/okr"
)

const dateLayout = "2006-01-02"

type CreateKeyResultDTO struct {
	Title   string `json:"title"`
	OwnerID string `json:"owner"`
}

// CreateObjectiveDTO carries a new objective. OwnerID defaults to the actor.
type CreateObjectiveDTO struct {
	Title      string               `json:"title"`
	OwnerID    string               `json:"owner,omitempty"`
	Department string               `json:"department,omitempty"`
	Status     string               `json:"status,omitempty"`
	Target     float64              `json:"target"`
	Actual     float64              `json:"actual"`
	StartDate  string               `json:"start_date"`
	EndDate    string               `json:"end_date"`
	KeyResults []CreateKeyResultDTO `json:"key_results,omitempty"`
}

func (d CreateObjectiveDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(255)
	v.Field("department", d.Department).MaxLength(100)
	v.Field("status", d.Status).OneOf(internal.ErrCodeInvalidStatus,
		string(okr.ObjectivePending), string(okr.ObjectiveInProgress),
		string(okr.ObjectiveAchieved), string(okr.ObjectiveNotAchieved))
	v.Field("target", d.Target).NonNegative()
	v.Field("actual", d.Actual).NonNegative()
	v.Field("start_date", d.StartDate).Required().Custom(isDate("start_date"))
	v.Field("end_date", d.EndDate).Required().Custom(isDate("end_date")).Custom(notBefore(d.StartDate))
	for i, kr := range d.KeyResults {
		v.Field(fmt.Sprintf("key_results[%d].title", i), kr.Title).Required().MaxLength(255)
		v.Field(fmt.Sprintf("key_results[%d].owner", i), kr.OwnerID).Required()
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type RequestObjectiveDTO struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func (d RequestObjectiveDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(255)
	v.Field("description", d.Description).MaxLength(2000)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type AttachmentDTO struct {
	Name     string `json:"name"`
	Size     int64  `json:"size,omitempty"`
	MimeType string `json:"type,omitempty"`
}

type AddMilestoneDTO struct {
	Title       string          `json:"title"`
	Status      string          `json:"status,omitempty"`
	Attachments []AttachmentDTO `json:"attachments,omitempty"`
}

func (d AddMilestoneDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(255)
	v.Field("status", d.Status).OneOf(internal.ErrCodeInvalidStatus, milestoneStatuses()...)
	for i, a := range d.Attachments {
		v.Field(fmt.Sprintf("attachments[%d].name", i), a.Name).Required().MaxLength(255)
	}
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

type UpdateMilestoneStatusDTO struct {
	Status string `json:"status"`
}

func (d UpdateMilestoneStatusDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("status", d.Status).Required().OneOf(internal.ErrCodeInvalidStatus, milestoneStatuses()...)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func milestoneStatuses() []string {
	return []string{string(okr.MilestoneToDo), string(okr.MilestoneInProgress), string(okr.MilestoneDone)}
}

func isDate(field string) validation.ValidatorFunc {
	return func(value interface{}) *internal.AppError {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if _, err := time.Parse(dateLayout, s); err != nil {
			return internal.NewValidationFieldError(field, field+" must be a date in YYYY-MM-DD format", internal.ErrCodeValidationFailed)
		}
		return nil
	}
}

func notBefore(start string) validation.ValidatorFunc {
	return func(value interface{}) *internal.AppError {
		end, _ := value.(string)
		s, errS := time.Parse(dateLayout, start)
		e, errE := time.Parse(dateLayout, end)
		if errS != nil || errE != nil {
			return nil
		}
		if e.Before(s) {
			return internal.NewValidationFieldError("end_date", "end_date must not be before start_date", internal.ErrCodeValidationFailed)
		}
		return nil
	}
}

func (f Filter) Validate() error {
	v := validation.NewValidator()
	v.Field("status", string(f.Status)).OneOf(internal.ErrCodeInvalidStatus,
		string(okr.ObjectivePending), string(okr.ObjectiveInProgress),
		string(okr.ObjectiveAchieved), string(okr.ObjectiveNotAchieved))
	v.Field("search", f.Search).MaxLength(255)
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}
