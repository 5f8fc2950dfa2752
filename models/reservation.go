// models/reservation.go
package models

import "time"

const (
	ReservationTable       = "reservations"
	ReservationStatusTable = "reservation_status"
	LineItemTable          = "equipment_reservations"
)

// 预约状态枚举
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// 预约类型：现场使用 / 外借
const (
	TypeOnsite = "onsite"
	TypeBorrow = "borrow"
)

// Reservation 头表；status=pending 时就是用户的“购物车”
type Reservation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AccountID uint      `gorm:"index;not null" json:"accountId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ReservationStatus struct {
	ReservationID uint      `gorm:"primaryKey" json:"reservationId"`
	Status        string    `gorm:"size:10;index;not null" json:"status"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// LineItem 单件设备的预约行
type LineItem struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	EquipmentID   uint      `gorm:"index;not null" json:"equipmentId"`
	ReservationID *uint     `gorm:"index" json:"reservationId,omitempty"`
	BorrowDate    time.Time `gorm:"not null" json:"borrowDate"`
	ReturnDate    time.Time `gorm:"not null" json:"returnDate"`
	Purpose       string    `gorm:"type:text" json:"purpose"`
	Type          string    `gorm:"column:reservation_type;size:10;not null" json:"type"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Reservation) TableName() string       { return ReservationTable }
func (ReservationStatus) TableName() string { return ReservationStatusTable }
func (LineItem) TableName() string          { return LineItemTable }
