package organization

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/frahmantamala/okr-dashboard/internal"
	"github.com/frahmantamala/okr-dashboard/internal/core/common/validation"
	"github.com/frahmantamala/okr-dashboard/internal/core/events"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
	"github.com/frahmantamala/okr-dashboard/internal/permission"
)

var ErrInvalidMove = internal.NewConflictError("Member cannot report to someone in their own reporting line", internal.ErrCodeHierarchyCycle)

// Service owns the current directory snapshot. Readers get an immutable
// *org.Directory; Reparent persists the change and swaps in a new snapshot.
type Service struct {
	repo      Repository
	checker   permission.Checker
	publisher events.Publisher
	logger    *slog.Logger

	mu  sync.RWMutex
	dir *org.Directory
}

func NewService(repo Repository, checker permission.Checker, publisher events.Publisher, logger *slog.Logger) *Service {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Service{
		repo:      repo,
		checker:   checker,
		publisher: publisher,
		logger:    logger,
	}
}

// Load replaces the snapshot with the repository contents. Structural
// problems such as cycles are logged, not rejected: queries touching the
// broken part report them as integrity errors.
func (s *Service) Load(ctx context.Context) error {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}
	dir, err := org.NewDirectory(users...)
	if err != nil {
		return fmt.Errorf("build directory: %w", err)
	}
	if err := dir.Validate(); err != nil {
		s.logger.ErrorContext(ctx, "organization directory failed validation", "error", err)
	}

	s.mu.Lock()
	s.dir = dir
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "organization directory loaded", "users", dir.Len())
	return nil
}

func (s *Service) Snapshot() *org.Directory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir
}

// Chart lists the members of an org chart view for actor.
func (s *Service) Chart(ctx context.Context, actor *org.User, view org.View) (*ChartResponse, error) {
	if !s.checker.CanViewDashboard(actor) {
		return nil, internal.ErrPermissionDenied
	}
	if view == "" {
		view = org.ViewAll
	}
	v := validation.NewValidator()
	v.Field("view", string(view)).OneOf(internal.ErrCodeInvalidView, string(org.ViewAll), string(org.ViewMy), string(org.ViewCompany))
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	dir := s.Snapshot()
	members, err := dir.Members(view, actor.ID)
	if err != nil {
		return nil, err
	}

	resp := &ChartResponse{View: view, Members: members}
	if root, ok := dir.Root(); ok {
		resp.RootID = root.ID
	}
	return resp, nil
}

func (s *Service) User(ctx context.Context, id string) (*UserView, error) {
	dir := s.Snapshot()
	u, ok := dir.FindUser(id)
	if !ok {
		return nil, internal.ErrUserNotFound
	}

	view := &UserView{User: u, DirectReports: dir.DirectReports(id)}
	if u.HasManager() {
		if m, ok := dir.FindUser(u.ManagerID); ok {
			view.Manager = &m
		}
	}
	return view, nil
}

// Ancestors returns id's management chain, nearest first. A cycle surfaces
// as org.ErrCycleDetected.
func (s *Service) Ancestors(ctx context.Context, id string) ([]org.User, error) {
	dir := s.Snapshot()
	if _, ok := dir.FindUser(id); !ok {
		return nil, internal.ErrUserNotFound
	}
	ancestors, err := dir.AncestorsOf(id)
	if err != nil {
		s.logger.ErrorContext(ctx, "ancestor walk failed", "user_id", id, "error", err)
		return nil, err
	}
	return ancestors, nil
}

// Reparent moves memberID under managerID. Only actors allowed to manage the
// organization may do so, and a move that would close a loop is refused.
func (s *Service) Reparent(ctx context.Context, actor *org.User, memberID string, dto ReparentDTO) (*org.User, error) {
	if !s.checker.CanManageOrganization(actor) {
		return nil, internal.ErrPermissionDenied
	}

	v := validation.NewValidator()
	v.Field("manager_id", dto.ManagerID).Required()
	if appErr := v.Validate(); appErr != nil {
		return nil, appErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.dir
	previous, _ := current.FindUser(memberID)

	next, err := current.Reparent(memberID, dto.ManagerID)
	switch {
	case errors.Is(err, org.ErrUserNotFound):
		return nil, internal.ErrUserNotFound
	case errors.Is(err, org.ErrCycleDetected):
		if _, walkErr := current.AncestorsOf(dto.ManagerID); walkErr != nil {
			return nil, walkErr
		}
		return nil, ErrInvalidMove
	case err != nil:
		return nil, err
	}

	if err := s.repo.UpdateManager(ctx, memberID, dto.ManagerID); err != nil {
		return nil, err
	}
	s.dir = next

	moved, _ := next.FindUser(memberID)
	s.logger.InfoContext(ctx, "member reparented",
		"actor_id", actor.ID,
		"member_id", memberID,
		"from_manager_id", previous.ManagerID,
		"to_manager_id", dto.ManagerID)

	if err := s.publisher.Publish(ctx, events.NewManagerChangedEvent(actor.ID, memberID, previous.ManagerID, dto.ManagerID)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish manager change", "error", err)
	}
	return &moved, nil
}
