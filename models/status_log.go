package models

import "time"

// StatusLog 记录管理员审批动作的审计信息
type StatusLog struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	ReservationID uint      `gorm:"index;not null" json:"reservationId"`
	ActorID       uint      `gorm:"index;not null" json:"actorId"`
	ActorUsername string    `gorm:"size:100" json:"actorUsername"`
	OldStatus     string    `gorm:"size:10" json:"oldStatus"`
	NewStatus     string    `gorm:"size:10" json:"newStatus"`
	Reason        *string   `json:"reason,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (StatusLog) TableName() string { return "reservation_status_log" }
