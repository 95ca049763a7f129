package org

import "time"

type User struct {
	ID         string    `gorm:"column:id;primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	Email      string    `gorm:"column:email"`
	Role       string    `gorm:"column:role;not null"`
	ManagerID  *string   `gorm:"column:manager_id"`
	IsAdmin    bool      `gorm:"column:is_admin;not null;default:false"`
	Department string    `gorm:"column:department"`
	Position   int       `gorm:"column:position;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
