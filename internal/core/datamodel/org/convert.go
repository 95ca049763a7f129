package org

import domain "github.com/frahmantamala/okr-dashboard/internal/core/org"

func FromDomain(u domain.User, position int) User {
	row := User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       string(u.Role),
		IsAdmin:    u.IsAdmin,
		Department: u.Department,
		Position:   position,
	}
	if u.ManagerID != "" {
		managerID := u.ManagerID
		row.ManagerID = &managerID
	}
	return row
}

func (u User) ToDomain() domain.User {
	out := domain.User{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       domain.Role(u.Role),
		IsAdmin:    u.IsAdmin,
		Department: u.Department,
	}
	if u.ManagerID != nil {
		out.ManagerID = *u.ManagerID
	}
	return out
}
