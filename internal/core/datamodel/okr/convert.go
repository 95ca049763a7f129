package okr

import domain "github.com/frahmantamala/okr-dashboard/internal/core/okr"

// AttachmentKey identifies the milestone an attachment row belongs to.
type AttachmentKey struct {
	KeyResultID string
	MilestoneID string
}

// FromDomain flattens an objective tree into rows. Slice order becomes the
// Position column so display order survives a round trip.
func FromDomain(o *domain.Objective, position int) (Objective, []Attachment) {
	row := Objective{
		ID:           o.ID,
		Title:        o.Title,
		OwnerID:      o.OwnerID,
		Department:   o.Department,
		Status:       string(o.Status),
		Progress:     o.Progress,
		Target:       o.Target,
		Actual:       o.Actual,
		TotalScore:   o.TotalScore,
		PlannedScore: o.PlannedScore,
		ActualScore:  o.ActualScore,
		StartDate:    o.StartDate,
		EndDate:      o.EndDate,
		Position:     position,
	}

	var attachments []Attachment
	for i, kr := range o.KeyResults {
		krRow := KeyResult{
			ID:          kr.ID,
			ObjectiveID: o.ID,
			Title:       kr.Title,
			OwnerID:     kr.OwnerID,
			Status:      string(kr.Status),
			Position:    i,
		}
		for j, m := range kr.Milestones {
			krRow.Milestones = append(krRow.Milestones, FromMilestone(kr.ID, m, j))
			attachments = append(attachments, FromAttachments(kr.ID, m.ID, m.Attachments)...)
		}
		row.KeyResults = append(row.KeyResults, krRow)
	}
	return row, attachments
}

func FromMilestone(keyResultID string, m *domain.Milestone, position int) Milestone {
	return Milestone{
		KeyResultID: keyResultID,
		ID:          m.ID,
		Title:       m.Title,
		Status:      string(m.Status),
		Position:    position,
	}
}

func FromAttachments(keyResultID, milestoneID string, attachments []domain.Attachment) []Attachment {
	out := make([]Attachment, 0, len(attachments))
	for i, a := range attachments {
		out = append(out, Attachment{
			KeyResultID: keyResultID,
			MilestoneID: milestoneID,
			Position:    i,
			Name:        a.Name,
			Size:        a.Size,
			MimeType:    a.MimeType,
		})
	}
	return out
}

// GroupAttachments indexes attachment rows by milestone, keeping row order.
func GroupAttachments(rows []Attachment) map[AttachmentKey][]domain.Attachment {
	out := make(map[AttachmentKey][]domain.Attachment)
	for _, a := range rows {
		key := AttachmentKey{KeyResultID: a.KeyResultID, MilestoneID: a.MilestoneID}
		out[key] = append(out[key], domain.Attachment{Name: a.Name, Size: a.Size, MimeType: a.MimeType})
	}
	return out
}

// ToDomain rebuilds the objective tree. Key results and milestones must
// already be sorted by position.
func (o Objective) ToDomain(attachments map[AttachmentKey][]domain.Attachment) *domain.Objective {
	out := &domain.Objective{
		ID:           o.ID,
		Title:        o.Title,
		OwnerID:      o.OwnerID,
		Department:   o.Department,
		Status:       domain.ObjectiveStatus(o.Status),
		Progress:     o.Progress,
		Target:       o.Target,
		Actual:       o.Actual,
		TotalScore:   o.TotalScore,
		PlannedScore: o.PlannedScore,
		ActualScore:  o.ActualScore,
		StartDate:    o.StartDate,
		EndDate:      o.EndDate,
		KeyResults:   make([]*domain.KeyResult, 0, len(o.KeyResults)),
	}
	for _, kr := range o.KeyResults {
		out.KeyResults = append(out.KeyResults, kr.ToDomain(attachments))
	}
	return out
}

func (kr KeyResult) ToDomain(attachments map[AttachmentKey][]domain.Attachment) *domain.KeyResult {
	out := &domain.KeyResult{
		ID:         kr.ID,
		Title:      kr.Title,
		OwnerID:    kr.OwnerID,
		Status:     domain.KeyResultStatus(kr.Status),
		Milestones: make([]*domain.Milestone, 0, len(kr.Milestones)),
	}
	for _, m := range kr.Milestones {
		out.Milestones = append(out.Milestones, &domain.Milestone{
			ID:          m.ID,
			Title:       m.Title,
			Status:      domain.MilestoneStatus(m.Status),
			Attachments: attachments[AttachmentKey{KeyResultID: kr.ID, MilestoneID: m.ID}],
		})
	}
	return out
}
