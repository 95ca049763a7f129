package objective

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/frahmantamala/okr-dashboard/internal"
	"github.com/frahmantamala/okr-dashboard/internal/core/events"
	"github.com/frahmantamala/okr-dashboard/internal/core/okr"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
	"github.com/frahmantamala/okr-dashboard/internal/export"
	"github.com/frahmantamala/okr-dashboard/internal/permission"
)

const (
	allDepartments       = "all"
	unassignedDepartment = "Unassigned"
)

type Service struct {
	repo      Repository
	checker   permission.Checker
	directory DirectorySource
	publisher events.Publisher
	logger    *slog.Logger

	// serializes check-then-write sequences against the repository
	mu sync.Mutex
}

func NewService(repo Repository, checker permission.Checker, directory DirectorySource, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		checker:   checker,
		directory: directory,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *Service) List(ctx context.Context, actor *org.User, filter Filter) ([]ObjectiveView, error) {
	if !s.checker.CanViewDashboard(actor) {
		return nil, internal.ErrPermissionDenied
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	graph, err := s.repo.Graph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load objectives: %w", err)
	}

	dir := s.directory.Snapshot()
	matched := s.filter(graph.Objectives, filter, dir)
	views := make([]ObjectiveView, 0, len(matched))
	for _, o := range matched {
		views = append(views, s.view(actor, o, dir))
	}
	return views, nil
}

func (s *Service) Get(ctx context.Context, actor *org.User, id string) (*ObjectiveView, error) {
	if !s.checker.CanViewDashboard(actor) {
		return nil, internal.ErrPermissionDenied
	}
	graph, err := s.repo.Graph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load objectives: %w", err)
	}
	o := graph.FindObjective(id)
	if o == nil {
		return nil, internal.ErrObjectiveNotFound
	}
	view := s.view(actor, o, s.directory.Snapshot())
	return &view, nil
}

// Create stores a new objective owned by dto.OwnerID, or by the actor when
// no owner is given.
func (s *Service) Create(ctx context.Context, actor *org.User, dto CreateObjectiveDTO) (*ObjectiveView, error) {
	if !s.checker.CanCreateObjective(actor) {
		return nil, internal.ErrPermissionDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dir := s.directory.Snapshot()
	ownerID := dto.OwnerID
	if ownerID == "" {
		ownerID = actor.ID
	}
	if _, ok := dir.FindUser(ownerID); !ok {
		return nil, internal.NewValidationFieldError("owner", "owner must be a known user", internal.ErrCodeInvalidOwner)
	}

	status := okr.ObjectiveStatus(dto.Status)
	if status == "" {
		status = okr.ObjectivePending
	}

	o := &okr.Objective{
		ID:         uuid.New().String(),
		Title:      strings.TrimSpace(dto.Title),
		OwnerID:    ownerID,
		Department: strings.TrimSpace(dto.Department),
		Status:     status,
		Target:     dto.Target,
		Actual:     dto.Actual,
		StartDate:  dto.StartDate,
		EndDate:    dto.EndDate,
		KeyResults: make([]*okr.KeyResult, 0, len(dto.KeyResults)),
	}
	o.Progress = float64(o.ProgressPercent())

	for i, kr := range dto.KeyResults {
		if _, ok := dir.FindUser(kr.OwnerID); !ok {
			field := fmt.Sprintf("key_results[%d].owner", i)
			return nil, internal.NewValidationFieldError(field, field+" must be a known user", internal.ErrCodeInvalidOwner)
		}
		o.KeyResults = append(o.KeyResults, &okr.KeyResult{
			ID:         uuid.New().String(),
			Title:      strings.TrimSpace(kr.Title),
			OwnerID:    kr.OwnerID,
			Status:     okr.KeyResultToDo,
			Milestones: []*okr.Milestone{},
		})
	}

	s.mu.Lock()
	err := s.repo.Create(ctx, o)
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("create objective: %w", err)
	}

	s.logger.InfoContext(ctx, "objective created", "objective_id", o.ID, "owner_id", o.OwnerID, "actor_id", actor.ID)
	s.publish(ctx, events.NewObjectiveCreatedEvent(actor.ID, o.ID, o.OwnerID))

	view := s.view(actor, o, dir)
	return &view, nil
}

// Request files a pending objective proposal for approval.
func (s *Service) Request(ctx context.Context, actor *org.User, dto RequestObjectiveDTO) (*Request, error) {
	if !s.checker.CanRequestObjective(actor) {
		return nil, internal.ErrPermissionDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req := &Request{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(dto.Title),
		Description: strings.TrimSpace(dto.Description),
		RequestedBy: actor.ID,
		Status:      RequestPending,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("create objective request: %w", err)
	}

	s.logger.InfoContext(ctx, "objective requested", "request_id", req.ID, "actor_id", actor.ID)
	s.publish(ctx, events.NewObjectiveRequestedEvent(actor.ID, req.ID, req.Title))
	return req, nil
}

// ListRequests shows every request to actors who can create objectives and
// only their own to requesters.
func (s *Service) ListRequests(ctx context.Context, actor *org.User) ([]Request, error) {
	canApprove := s.checker.CanCreateObjective(actor)
	if !canApprove && !s.checker.CanRequestObjective(actor) {
		return nil, internal.ErrPermissionDenied
	}
	requests, err := s.repo.ListRequests(ctx)
	if err != nil {
		return nil, fmt.Errorf("list objective requests: %w", err)
	}
	if canApprove {
		return requests, nil
	}

	own := make([]Request, 0, len(requests))
	for _, r := range requests {
		if r.RequestedBy == actor.ID {
			own = append(own, r)
		}
	}
	return own, nil
}

func (s *Service) Delete(ctx context.Context, actor *org.User, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	graph, err := s.repo.Graph(ctx)
	if err != nil {
		return fmt.Errorf("load objectives: %w", err)
	}
	o := graph.FindObjective(id)
	if o == nil {
		return internal.ErrObjectiveNotFound
	}
	if !s.checker.CanDeleteObjective(actor, o, s.directory.Snapshot()) {
		s.logger.WarnContext(ctx, "objective delete denied", "objective_id", id, "owner_id", o.OwnerID, "actor_id", actorID(actor))
		return internal.ErrPermissionDenied
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "objective deleted", "objective_id", id, "actor_id", actor.ID)
	s.publish(ctx, events.NewObjectiveDeletedEvent(actor.ID, id, o.OwnerID))
	return nil
}

func (s *Service) AddMilestone(ctx context.Context, actor *org.User, keyResultID string, dto AddMilestoneDTO) (*okr.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	graph, err := s.repo.Graph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load objectives: %w", err)
	}
	kr, _ := graph.FindKeyResult(keyResultID)
	if kr == nil {
		return nil, internal.ErrKeyResultNotFound
	}
	if !s.checker.CanAddMilestone(actor, kr) {
		return nil, internal.ErrPermissionDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	attachments := make([]okr.Attachment, 0, len(dto.Attachments))
	for _, a := range dto.Attachments {
		attachments = append(attachments, okr.Attachment{Name: a.Name, Size: a.Size, MimeType: a.MimeType})
	}
	m := okr.NewMilestone(uuid.New().String(), strings.TrimSpace(dto.Title), attachments...)
	if dto.Status != "" {
		m.SetStatus(okr.MilestoneStatus(dto.Status))
	}

	if err := s.repo.AddMilestone(ctx, kr.ID, m); err != nil {
		return nil, fmt.Errorf("add milestone: %w", err)
	}

	s.logger.InfoContext(ctx, "milestone added", "key_result_id", kr.ID, "milestone_id", m.ID, "actor_id", actor.ID)
	s.publish(ctx, events.NewMilestoneAddedEvent(actor.ID, kr.ID, m.ID))
	return m, nil
}

// UpdateMilestoneStatus sets a milestone's status. Any transition is allowed,
// including reopening a Done milestone.
func (s *Service) UpdateMilestoneStatus(ctx context.Context, actor *org.User, keyResultID, milestoneID string, dto UpdateMilestoneStatusDTO) (*okr.Milestone, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	graph, err := s.repo.Graph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load objectives: %w", err)
	}
	m, kr := graph.FindMilestone(keyResultID, milestoneID)
	if kr == nil {
		return nil, internal.ErrKeyResultNotFound
	}
	if m == nil {
		return nil, internal.ErrMilestoneNotFound
	}
	if !s.checker.CanUpdateMilestone(actor, m, kr, s.directory.Snapshot()) {
		return nil, internal.ErrPermissionDenied
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	from := m.Status
	to := okr.MilestoneStatus(dto.Status)
	if err := s.repo.UpdateMilestoneStatus(ctx, kr.ID, m.ID, to); err != nil {
		return nil, fmt.Errorf("update milestone status: %w", err)
	}
	m.SetStatus(to)

	s.logger.InfoContext(ctx, "milestone status changed",
		"key_result_id", kr.ID,
		"milestone_id", m.ID,
		"from", from,
		"to", to,
		"actor_id", actor.ID)
	s.publish(ctx, events.NewMilestoneStatusChangedEvent(actor.ID, kr.ID, m.ID, string(from), string(to)))
	return m, nil
}

// Summary computes report figures for one department, or for every
// department when department is empty or "all".
func (s *Service) Summary(ctx context.Context, actor *org.User, department string) (*Summary, error) {
	if !s.checker.CanViewDashboard(actor) {
		return nil, internal.ErrPermissionDenied
	}
	graph, err := s.repo.Graph(ctx)
	if err != nil {
		return nil, fmt.Errorf("load objectives: %w", err)
	}

	department = strings.TrimSpace(department)
	if department == "" {
		department = allDepartments
	}

	summary := &Summary{
		Department: department,
		StatusCounts: map[string]int{
			BucketOnTrack:     0,
			BucketAtRisk:      0,
			BucketAchieved:    0,
			BucketNotAchieved: 0,
		},
		Departments: []DepartmentProgress{},
	}

	type deptTotals struct {
		count    int
		progress float64
	}
	byDept := make(map[string]*deptTotals)

	var actualScore, totalScore float64
	for _, o := range graph.Objectives {
		dept := departmentOf(o)
		if department != allDepartments && !strings.EqualFold(dept, department) {
			continue
		}

		summary.TotalObjectives++
		if o.Status == okr.ObjectiveAchieved {
			summary.AchievedObjectives++
		}
		summary.StatusCounts[Bucket(o)]++
		actualScore += o.ActualScore
		totalScore += o.TotalScore

		t, ok := byDept[dept]
		if !ok {
			t = &deptTotals{}
			byDept[dept] = t
		}
		t.count++
		t.progress += o.Progress
	}

	if totalScore > 0 {
		summary.OverallProgress = int(math.Round(actualScore / totalScore * 100))
	}

	for dept, t := range byDept {
		summary.Departments = append(summary.Departments, DepartmentProgress{
			Department:      dept,
			Objectives:      t.count,
			AverageProgress: int(math.Round(t.progress / float64(t.count))),
		})
	}
	sort.Slice(summary.Departments, func(i, j int) bool {
		return summary.Departments[i].Department < summary.Departments[j].Department
	})
	return summary, nil
}

// Export writes the objectives matching filter to w as CSV.
func (s *Service) Export(ctx context.Context, actor *org.User, filter Filter, w io.Writer) error {
	if !s.checker.CanViewDashboard(actor) {
		return internal.ErrPermissionDenied
	}
	if err := filter.Validate(); err != nil {
		return err
	}
	graph, err := s.repo.Graph(ctx)
	if err != nil {
		return fmt.Errorf("load objectives: %w", err)
	}

	dir := s.directory.Snapshot()
	matched := s.filter(graph.Objectives, filter, dir)
	return export.WriteObjectives(w, matched, func(id string) (string, bool) {
		u, ok := dir.FindUser(id)
		return u.Name, ok && u.Name != ""
	})
}

func (s *Service) filter(objectives []*okr.Objective, f Filter, dir *org.Directory) []*okr.Objective {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	department := strings.TrimSpace(f.Department)
	if strings.EqualFold(department, allDepartments) {
		department = ""
	}

	out := make([]*okr.Objective, 0, len(objectives))
	for _, o := range objectives {
		if f.Status != "" && o.Status != f.Status {
			continue
		}
		if f.OwnerID != "" && o.OwnerID != f.OwnerID {
			continue
		}
		if department != "" && !strings.EqualFold(departmentOf(o), department) {
			continue
		}
		if search != "" {
			owner, _ := dir.FindUser(o.OwnerID)
			if !strings.Contains(strings.ToLower(o.Title), search) &&
				!strings.Contains(strings.ToLower(owner.Name), search) {
				continue
			}
		}
		out = append(out, o)
	}
	return out
}

func (s *Service) view(actor *org.User, o *okr.Objective, dir *org.Directory) ObjectiveView {
	view := ObjectiveView{
		Objective:       o,
		OwnerName:       nameOf(dir, o.OwnerID),
		ProgressPercent: o.ProgressPercent(),
		CanDelete:       s.checker.CanDeleteObjective(actor, o, dir),
		KeyResults:      make([]KeyResultView, 0, len(o.KeyResults)),
	}
	for _, kr := range o.KeyResults {
		krView := KeyResultView{
			KeyResult:       kr,
			OwnerName:       nameOf(dir, kr.OwnerID),
			CanAddMilestone: s.checker.CanAddMilestone(actor, kr),
			Milestones:      make([]MilestoneView, 0, len(kr.Milestones)),
		}
		for _, m := range kr.Milestones {
			krView.Milestones = append(krView.Milestones, MilestoneView{
				Milestone: m,
				CanUpdate: s.checker.CanUpdateMilestone(actor, m, kr, dir),
			})
		}
		view.KeyResults = append(view.KeyResults, krView)
	}
	return view
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

func departmentOf(o *okr.Objective) string {
	if strings.TrimSpace(o.Department) == "" {
		return unassignedDepartment
	}
	return o.Department
}

func nameOf(dir *org.Directory, id string) string {
	u, _ := dir.FindUser(id)
	return u.Name
}

func actorID(actor *org.User) string {
	if actor == nil {
		return ""
	}
	return actor.ID
}
