package model

import "time"

type StaffRole string

const (
	StaffCashier  StaffRole = "Cashier"
	StaffSalesRep StaffRole = "Sales Rep"
	StaffManager  StaffRole = "Manager"
)

func (r StaffRole) Valid() bool {
	switch r {
	case StaffCashier, StaffSalesRep, StaffManager:
		return true
	}
	return false
}

type Staff struct {
	BaseModel
	Name     string     `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Role     StaffRole  `gorm:"type:varchar(20);not null" json:"role" validate:"required,staff_role"`
	Email    string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	JoinDate *time.Time `gorm:"type:date" json:"join_date"`
}

func (Staff) TableName() string {
	return "staff"
}
