// Package seed loads the demo organization and OKR tree from YAML and writes
// it into the database.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	okrmodel "github.com/frahmantamala/okr-dashboard/internal/core/datamodel/okr"
	orgmodel "github.com/frahmantamala/okr-dashboard/internal/core/datamodel/org"
	"github.com/frahmantamala/okr-dashboard/internal/core/okr"
	"github.com/frahmantamala/okr-dashboard/internal/core/org"
)

//go:embed seed.yml
var defaultSeed []byte

var ErrInvalidDataset = errors.New("invalid seed dataset")

type Dataset struct {
	Users      []User      `yaml:"users"`
	Objectives []Objective `yaml:"objectives"`
}

type User struct {
	ID         string `yaml:"id"`
	Name       string `yaml:"name"`
	Email      string `yaml:"email"`
	Role       string `yaml:"role"`
	ManagerID  string `yaml:"manager_id"`
	IsAdmin    bool   `yaml:"is_admin"`
	Department string `yaml:"department"`
}

type Objective struct {
	ID           string      `yaml:"id"`
	Title        string      `yaml:"title"`
	OwnerID      string      `yaml:"owner"`
	Department   string      `yaml:"department"`
	Status       string      `yaml:"status"`
	Progress     float64     `yaml:"progress"`
	Target       float64     `yaml:"target"`
	Actual       float64     `yaml:"actual"`
	TotalScore   float64     `yaml:"total_score"`
	PlannedScore float64     `yaml:"planned_score"`
	ActualScore  float64     `yaml:"actual_score"`
	StartDate    string      `yaml:"start_date"`
	EndDate      string      `yaml:"end_date"`
	KeyResults   []KeyResult `yaml:"key_results"`
}

type KeyResult struct {
	ID         string      `yaml:"id"`
	Title      string      `yaml:"title"`
	OwnerID    string      `yaml:"owner"`
	Status     string      `yaml:"status"`
	Milestones []Milestone `yaml:"milestones"`
}

type Milestone struct {
	ID          string       `yaml:"id"`
	Title       string       `yaml:"title"`
	Status      string       `yaml:"status"`
	Attachments []Attachment `yaml:"attachments"`
}

type Attachment struct {
	Name     string `yaml:"name"`
	Size     int64  `yaml:"size"`
	MimeType string `yaml:"type"`
}

// Default returns the embedded demo dataset.
func Default() (*Dataset, error) {
	return Parse(defaultSeed)
}

// Load reads a dataset from path, or the embedded default when path is empty.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yaml.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataset, err)
	}
	if len(ds.Users) == 0 {
		return nil, fmt.Errorf("%w: no users", ErrInvalidDataset)
	}
	return &ds, nil
}

// Directory builds and validates the org directory. A dataset whose reporting
// lines loop or do not meet at a single root is rejected.
func (ds *Dataset) Directory() (*org.Directory, error) {
	users := make([]org.User, 0, len(ds.Users))
	for _, u := range ds.Users {
		role, err := org.ParseRole(u.Role)
		if err != nil {
			return nil, fmt.Errorf("user %q: %w", u.ID, err)
		}
		users = append(users, org.User{
			ID:         u.ID,
			Name:       u.Name,
			Email:      strings.ToLower(strings.TrimSpace(u.Email)),
			Role:       role,
			ManagerID:  u.ManagerID,
			IsAdmin:    u.IsAdmin,
			Department: u.Department,
		})
	}

	dir, err := org.NewDirectory(users...)
	if err != nil {
		return nil, err
	}
	if err := dir.Validate(); err != nil {
		return nil, err
	}
	return dir, nil
}

// Graph builds the objective tree. New milestones without a status default
// to To-Do.
func (ds *Dataset) Graph() (*okr.Graph, error) {
	objectives := make([]*okr.Objective, 0, len(ds.Objectives))
	seen := make(map[string]bool)
	for _, o := range ds.Objectives {
		if seen[o.ID] {
			return nil, fmt.Errorf("%w: duplicate objective %q", ErrInvalidDataset, o.ID)
		}
		seen[o.ID] = true

		status := okr.ObjectiveStatus(o.Status)
		if status == "" {
			status = okr.ObjectivePending
		}
		if !status.Valid() {
			return nil, fmt.Errorf("%w: objective %q has status %q", ErrInvalidDataset, o.ID, o.Status)
		}

		obj := &okr.Objective{
			ID:           o.ID,
			Title:        o.Title,
			OwnerID:      o.OwnerID,
			Department:   o.Department,
			Status:       status,
			Progress:     o.Progress,
			Target:       o.Target,
			Actual:       o.Actual,
			TotalScore:   o.TotalScore,
			PlannedScore: o.PlannedScore,
			ActualScore:  o.ActualScore,
			StartDate:    o.StartDate,
			EndDate:      o.EndDate,
		}
		for _, kr := range o.KeyResults {
			keyResult, err := kr.toDomain()
			if err != nil {
				return nil, err
			}
			obj.KeyResults = append(obj.KeyResults, keyResult)
		}
		objectives = append(objectives, obj)
	}
	return okr.NewGraph(objectives...), nil
}

func (kr KeyResult) toDomain() (*okr.KeyResult, error) {
	status := okr.KeyResultStatus(kr.Status)
	if !status.Valid() {
		return nil, fmt.Errorf("%w: key result %q has status %q", ErrInvalidDataset, kr.ID, kr.Status)
	}
	out := &okr.KeyResult{ID: kr.ID, Title: kr.Title, OwnerID: kr.OwnerID, Status: status}
	for _, m := range kr.Milestones {
		milestone := okr.NewMilestone(m.ID, m.Title)
		if m.Status != "" {
			st := okr.MilestoneStatus(m.Status)
			if !st.Valid() {
				return nil, fmt.Errorf("%w: milestone %s/%s has status %q", ErrInvalidDataset, kr.ID, m.ID, m.Status)
			}
			milestone.SetStatus(st)
		}
		for _, a := range m.Attachments {
			milestone.Attachments = append(milestone.Attachments, okr.Attachment{Name: a.Name, Size: a.Size, MimeType: a.MimeType})
		}
		out.Milestones = append(out.Milestones, milestone)
	}
	return out, nil
}

// Credentials maps lower-cased login emails to user ids. Users without an
// email cannot sign in.
func (ds *Dataset) Credentials() map[string]string {
	out := make(map[string]string)
	for _, u := range ds.Users {
		email := strings.ToLower(strings.TrimSpace(u.Email))
		if email == "" {
			continue
		}
		out[email] = u.ID
	}
	return out
}

// Apply writes the dataset in one transaction. With clear set, existing rows
// are removed first; otherwise rows already present are left untouched.
func (ds *Dataset) Apply(ctx context.Context, db *gorm.DB, clear bool) error {
	dir, err := ds.Directory()
	if err != nil {
		return err
	}
	graph, err := ds.Graph()
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clear {
			for _, model := range []interface{}{
				&okrmodel.Attachment{}, &okrmodel.Milestone{}, &okrmodel.KeyResult{},
				&okrmodel.Objective{}, &okrmodel.ObjectiveRequest{}, &orgmodel.User{},
			} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return fmt.Errorf("clear %T: %w", model, err)
				}
			}
		}

		var count int64
		if err := tx.Model(&orgmodel.User{}).Count(&count).Error; err != nil {
			return fmt.Errorf("count users: %w", err)
		}
		if count > 0 {
			return nil
		}

		for i, u := range dir.Users() {
			row := orgmodel.FromDomain(u, i)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert user %s: %w", u.ID, err)
			}
		}

		for i, o := range graph.Objectives {
			row, attachments := okrmodel.FromDomain(o, i)
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("insert objective %s: %w", o.ID, err)
			}
			if len(attachments) > 0 {
				if err := tx.Create(&attachments).Error; err != nil {
					return fmt.Errorf("insert attachments for objective %s: %w", o.ID, err)
				}
			}
		}
		return nil
	})
}
