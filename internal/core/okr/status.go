package okr

type ObjectiveStatus string

const (
	ObjectiveAchieved    ObjectiveStatus = "achieved"
	ObjectiveInProgress  ObjectiveStatus = "in-progress"
	ObjectiveNotAchieved ObjectiveStatus = "not-achieved"
	ObjectivePending     ObjectiveStatus = "pending"
)

func (s ObjectiveStatus) Valid() bool {
	switch s {
	case ObjectiveAchieved, ObjectiveInProgress, ObjectiveNotAchieved, ObjectivePending:
		return true
	}
	return false
}

// MilestoneStatus has no enforced transition order: any status may follow any
// other.
type MilestoneStatus string

const (
	MilestoneToDo       MilestoneStatus = "To-Do"
	MilestoneInProgress MilestoneStatus = "In Progress"
	MilestoneDone       MilestoneStatus = "Done"
)

func (s MilestoneStatus) Valid() bool {
	switch s {
	case MilestoneToDo, MilestoneInProgress, MilestoneDone:
		return true
	}
	return false
}

// KeyResultStatus is optional on a key result and extends the milestone
// statuses with Achieved.
type KeyResultStatus string

const (
	KeyResultToDo       KeyResultStatus = "To-Do"
	KeyResultInProgress KeyResultStatus = "In Progress"
	KeyResultDone       KeyResultStatus = "Done"
	KeyResultAchieved   KeyResultStatus = "Achieved"
)

func (s KeyResultStatus) Valid() bool {
	switch s {
	case "", KeyResultToDo, KeyResultInProgress, KeyResultDone, KeyResultAchieved:
		return true
	}
	return false
}
