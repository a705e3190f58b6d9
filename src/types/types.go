package types

import (
	"time"

	"gorm.io/gorm"
)

type Timestamps struct {
	CreatedAt time.Time      `gorm:"autoCreateTime:nano" json:"created_at,omitempty"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime:nano" json:"updated_at,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty,omitnil"`
}

type Role string

const (
	ROLE_ADMIN    Role = "admin"
	ROLE_EMPLOYEE Role = "employee"
)

type AccessType string

const (
	ACCESS_HOURLY AccessType = "hourly"
	ACCESS_EVENT  AccessType = "event"
	ACCESS_DAILY  AccessType = "daily"
)

type SimpleRequestParams struct {
	ID uint `uri:"id" binding:"required"`
}

type LoginRequestBody struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterUserRequestBody struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
	Email    string `json:"email,omitempty" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     Role   `json:"role,omitempty" binding:"omitempty,oneof=admin employee"`
}

type UpdateUserRequestBody struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6"`
}

type CreateFacilityRequestBody struct {
	Name          string  `json:"name" binding:"required"`
	Address       string  `json:"address,omitempty"`
	Capacity      int     `json:"capacity" binding:"min=0"`
	FirstHourRate float64 `json:"first_hour_rate" binding:"min=0"`
	ExtraHourRate float64 `json:"extra_hour_rate" binding:"min=0"`
	DailyRate     float64 `json:"daily_rate" binding:"min=0"`
}

type UpdateFacilityRequestBody struct {
	Name          *string  `json:"name,omitempty"`
	Address       *string  `json:"address,omitempty"`
	Capacity      *int     `json:"capacity,omitempty" binding:"omitempty,min=0"`
	FirstHourRate *float64 `json:"first_hour_rate,omitempty" binding:"omitempty,min=0"`
	ExtraHourRate *float64 `json:"extra_hour_rate,omitempty" binding:"omitempty,min=0"`
	DailyRate     *float64 `json:"daily_rate,omitempty" binding:"omitempty,min=0"`
}

type CreateEventRequestBody struct {
	Name       string   `json:"name" binding:"required"`
	FacilityID uint     `json:"facility" binding:"required"`
	StartsAt   string   `json:"starts_at" binding:"required,eventdate" time_format:"2006-01-02 15:04:05 -07:00"`
	EndsAt     string   `json:"ends_at" binding:"required,eventdate,gtdate=StartsAt" time_format:"2006-01-02 15:04:05 -07:00"`
	FlatFee    *float64 `json:"flat_fee,omitempty" binding:"omitempty,min=0"`
}

type UpdateEventRequestBody struct {
	Name     *string  `json:"name,omitempty"`
	StartsAt *string  `json:"starts_at,omitempty" binding:"omitempty,eventdate"`
	EndsAt   *string  `json:"ends_at,omitempty" binding:"omitempty,eventdate"`
	FlatFee  *float64 `json:"flat_fee,omitempty" binding:"omitempty,min=0"`
}

type CreateAccessRequestBody struct {
	Plate      string `json:"plate" binding:"required"`
	FacilityID uint   `json:"facility" binding:"required"`
}

type DashboardMetrics struct {
	OccupiedSpaces int64   `json:"occupied_spaces"`
	TotalSpaces    int     `json:"total_spaces"`
	EntriesToday   int64   `json:"entries_today"`
	ExitsToday     int64   `json:"exits_today"`
	RevenueToday   string  `json:"revenue_today"`
	OccupancyDelta float64 `json:"occupancy_delta"`
}

type HourlyOccupancy struct {
	Hour    int   `json:"hour"`
	Entries int64 `json:"entries"`
}

type DashboardResponse struct {
	Metrics         DashboardMetrics  `json:"metrics"`
	HourlyOccupancy []HourlyOccupancy `json:"hourly_occupancy"`
}
