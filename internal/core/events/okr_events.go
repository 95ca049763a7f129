package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeObjectiveCreated       = "objective.created"
	EventTypeObjectiveRequested     = "objective.requested"
	EventTypeObjectiveDeleted       = "objective.deleted"
	EventTypeMilestoneAdded         = "milestone.added"
	EventTypeMilestoneStatusChanged = "milestone.status_changed"
	EventTypeManagerChanged         = "organization.manager_changed"
)

func newBase(eventType, actorID string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		ActorID:   actorID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

type ObjectiveCreatedEvent struct {
	BaseEvent
	ObjectiveID string `json:"objective_id"`
	OwnerID     string `json:"owner_id"`
}

func NewObjectiveCreatedEvent(actorID, objectiveID, ownerID string) *ObjectiveCreatedEvent {
	return &ObjectiveCreatedEvent{
		BaseEvent: newBase(EventTypeObjectiveCreated, actorID, map[string]interface{}{
			"objective_id": objectiveID,
			"owner_id":     ownerID,
		}),
		ObjectiveID: objectiveID,
		OwnerID:     ownerID,
	}
}

type ObjectiveRequestedEvent struct {
	BaseEvent
	RequestID string `json:"request_id"`
	Title     string `json:"title"`
}

func NewObjectiveRequestedEvent(actorID, requestID, title string) *ObjectiveRequestedEvent {
	return &ObjectiveRequestedEvent{
		BaseEvent: newBase(EventTypeObjectiveRequested, actorID, map[string]interface{}{
			"request_id": requestID,
			"title":      title,
		}),
		RequestID: requestID,
		Title:     title,
	}
}

type ObjectiveDeletedEvent struct {
	BaseEvent
	ObjectiveID string `json:"objective_id"`
	OwnerID     string `json:"owner_id"`
}

func NewObjectiveDeletedEvent(actorID, objectiveID, ownerID string) *ObjectiveDeletedEvent {
	return &ObjectiveDeletedEvent{
		BaseEvent: newBase(EventTypeObjectiveDeleted, actorID, map[string]interface{}{
			"objective_id": objectiveID,
			"owner_id":     ownerID,
		}),
		ObjectiveID: objectiveID,
		OwnerID:     ownerID,
	}
}

type MilestoneAddedEvent struct {
	BaseEvent
	KeyResultID string `json:"key_result_id"`
	MilestoneID string `json:"milestone_id"`
}

func NewMilestoneAddedEvent(actorID, keyResultID, milestoneID string) *MilestoneAddedEvent {
	return &MilestoneAddedEvent{
		BaseEvent: newBase(EventTypeMilestoneAdded, actorID, map[string]interface{}{
			"key_result_id": keyResultID,
			"milestone_id":  milestoneID,
		}),
		KeyResultID: keyResultID,
		MilestoneID: milestoneID,
	}
}

type MilestoneStatusChangedEvent struct {
	BaseEvent
	KeyResultID string `json:"key_result_id"`
	MilestoneID string `json:"milestone_id"`
	From        string `json:"from"`
	To          string `json:"to"`
}

func NewMilestoneStatusChangedEvent(actorID, keyResultID, milestoneID, from, to string) *MilestoneStatusChangedEvent {
	return &MilestoneStatusChangedEvent{
		BaseEvent: newBase(EventTypeMilestoneStatusChanged, actorID, map[string]interface{}{
			"key_result_id": keyResultID,
			"milestone_id":  milestoneID,
			"from":          from,
			"to":            to,
		}),
		KeyResultID: keyResultID,
		MilestoneID: milestoneID,
		From:        from,
		To:          to,
	}
}

type ManagerChangedEvent struct {
	BaseEvent
	MemberID      string `json:"member_id"`
	FromManagerID string `json:"from_manager_id"`
	ToManagerID   string `json:"to_manager_id"`
}

func NewManagerChangedEvent(actorID, memberID, fromManagerID, toManagerID string) *ManagerChangedEvent {
	return &ManagerChangedEvent{
		BaseEvent: newBase(EventTypeManagerChanged, actorID, map[string]interface{}{
			"member_id":       memberID,
			"from_manager_id": fromManagerID,
			"to_manager_id":   toManagerID,
		}),
		MemberID:      memberID,
		FromManagerID: fromManagerID,
		ToManagerID:   toManagerID,
	}
}
