package org

import (
	"errors"
	"fmt"
)

var (
	ErrCycleDetected  = errors.New("reporting hierarchy contains a cycle")
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateUser  = errors.New("duplicate user id")
	ErrEmptyUserID    = errors.New("user id is required")
	ErrInvalidRole    = errors.New("invalid role")
	ErrNoRoot         = errors.New("directory has no root user")
	ErrMultipleRoots  = errors.New("directory has more than one root user")
	ErrUnknownManager = errors.New("manager reference points to an unknown user")
)

// View selects which part of the directory an org chart shows.
type View string

const (
	ViewAll     View = "all"
	ViewMy      View = "my"
	ViewCompany View = "company"
)

func (v View) Valid() bool {
	return v == ViewAll || v == ViewMy || v == ViewCompany
}

// Directory is an immutable snapshot of users and their reporting lines.
// Every method is safe on a nil receiver and answers as an empty directory.
type Directory struct {
	users []User
	index map[string]int
}

func NewDirectory(users ...User) (*Directory, error) {
	d := &Directory{
		users: make([]User, 0, len(users)),
		index: make(map[string]int, len(users)),
	}
	for _, u := range users {
		if u.ID == "" {
			return nil, ErrEmptyUserID
		}
		if !u.Role.Valid() {
			return nil, fmt.Errorf("user %s: %w: %q", u.ID, ErrInvalidRole, u.Role)
		}
		if _, exists := d.index[u.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUser, u.ID)
		}
		d.index[u.ID] = len(d.users)
		d.users = append(d.users, u)
	}
	return d, nil
}

func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.users)
}

// Users returns a copy of all users in load order.
func (d *Directory) Users() []User {
	if d == nil {
		return nil
	}
	out := make([]User, len(d.users))
	copy(out, d.users)
	return out
}

func (d *Directory) FindUser(id string) (User, bool) {
	if d == nil {
		return User{}, false
	}
	i, ok := d.index[id]
	if !ok {
		return User{}, false
	}
	return d.users[i], true
}

// IsManagerOf reports whether candidateManagerID is the direct manager of
// subjectID. It does not follow the hierarchy further up.
func (d *Directory) IsManagerOf(candidateManagerID, subjectID string) bool {
	if candidateManagerID == "" {
		return false
	}
	subject, ok := d.FindUser(subjectID)
	if !ok {
		return false
	}
	return subject.ManagerID == candidateManagerID
}

// AncestorsOf walks manager references from id up to the root, nearest first,
// excluding id itself. An unknown id yields no ancestors. A reference to a
// user missing from the directory ends the walk.
func (d *Directory) AncestorsOf(id string) ([]User, error) {
	start, ok := d.FindUser(id)
	if !ok {
		return []User{}, nil
	}

	ancestors := []User{}
	visited := map[string]bool{start.ID: true}
	next := start.ManagerID
	for next != "" {
		if visited[next] {
			return nil, fmt.Errorf("%w: walking up from %s reached %s twice", ErrCycleDetected, id, next)
		}
		visited[next] = true

		manager, ok := d.FindUser(next)
		if !ok {
			break
		}
		ancestors = append(ancestors, manager)
		next = manager.ManagerID
	}
	return ancestors, nil
}

// Root returns the single user without a manager reference. It reports false
// when there is no such user or more than one.
func (d *Directory) Root() (User, bool) {
	var root User
	found := 0
	for _, u := range d.Users() {
		if !u.HasManager() {
			root = u
			found++
		}
	}
	if found != 1 {
		return User{}, false
	}
	return root, true
}

// DirectReports returns the users whose direct manager is id, in load order.
func (d *Directory) DirectReports(id string) []User {
	var reports []User
	for _, u := range d.Users() {
		if u.ManagerID == id && id != "" {
			reports = append(reports, u)
		}
	}
	return reports
}

// IsDescendantOf reports whether ancestorID appears anywhere above id.
func (d *Directory) IsDescendantOf(id, ancestorID string) (bool, error) {
	ancestors, err := d.AncestorsOf(id)
	if err != nil {
		return false, err
	}
	for _, a := range ancestors {
		if a.ID == ancestorID {
			return true, nil
		}
	}
	return false, nil
}

// Members returns the users visible in an org chart view:
//   - all: every user
//   - company: the root and everyone reporting up to it
//   - my: the actor and their direct reports; the root sees everyone
func (d *Directory) Members(view View, actorID string) ([]User, error) {
	switch view {
	case ViewAll, "":
		return d.Users(), nil
	case ViewCompany:
		root, ok := d.Root()
		if !ok {
			return []User{}, nil
		}
		members := []User{}
		for _, u := range d.Users() {
			if u.ID == root.ID {
				members = append(members, u)
				continue
			}
			under, err := d.IsDescendantOf(u.ID, root.ID)
			if err != nil {
				return nil, err
			}
			if under {
				members = append(members, u)
			}
		}
		return members, nil
	case ViewMy:
		actor, ok := d.FindUser(actorID)
		if !ok {
			return []User{}, nil
		}
		if !actor.HasManager() {
			return d.Users(), nil
		}
		members := []User{actor}
		return append(members, d.DirectReports(actor.ID)...), nil
	default:
		return nil, fmt.Errorf("unknown org chart view %q", view)
	}
}

// Reparent returns a new directory in which memberID reports to newManagerID.
// The receiver is left untouched.
func (d *Directory) Reparent(memberID, newManagerID string) (*Directory, error) {
	if _, ok := d.FindUser(memberID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, memberID)
	}
	if _, ok := d.FindUser(newManagerID); !ok {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, newManagerID)
	}
	if memberID == newManagerID {
		return nil, fmt.Errorf("%w: %s cannot report to itself", ErrCycleDetected, memberID)
	}

	under, err := d.IsDescendantOf(newManagerID, memberID)
	if err != nil {
		return nil, err
	}
	if under {
		return nil, fmt.Errorf("%w: %s reports up to %s", ErrCycleDetected, newManagerID, memberID)
	}

	users := d.Users()
	users[d.index[memberID]].ManagerID = newManagerID
	return NewDirectory(users...)
}

// Validate checks the structural invariants of the reporting hierarchy: every
// manager reference resolves, there are no cycles, and exactly one root exists.
func (d *Directory) Validate() error {
	roots := 0
	for _, u := range d.Users() {
		if !u.HasManager() {
			roots++
			continue
		}
		if _, ok := d.FindUser(u.ManagerID); !ok {
			return fmt.Errorf("%w: %s -> %s", ErrUnknownManager, u.ID, u.ManagerID)
		}
		if _, err := d.AncestorsOf(u.ID); err != nil {
			return err
		}
	}
	switch {
	case roots == 0 && d.Len() > 0:
		return ErrNoRoot
	case roots > 1:
		return ErrMultipleRoots
	}
	return nil
}
