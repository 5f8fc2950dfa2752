// models/equipment.go
package models

import "time"

const (
	CategoryTable  = "equipment_category"
	EquipmentTable = "equipment_details"
	InventoryTable = "equipment_inventory"
)

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:200;not null" json:"name"`
}

// Equipment 目录条目，预约流程中只读
type Equipment struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	CategoryID    uint   `gorm:"index;not null" json:"categoryId"`
	Name          string `gorm:"size:100;not null" json:"name"`
	Description   string `gorm:"type:text" json:"description"`
	IsOnsiteOnly  bool   `gorm:"not null;default:false" json:"isOnsiteOnly"`
	WarrantyYears int    `gorm:"not null;default:0" json:"warrantyYears"`

	Category Category `gorm:"foreignKey:CategoryID" json:"category"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Inventory 与 Equipment 一对一；lent+available 守恒，
// 只允许预约流程在行锁内改动
type Inventory struct {
	EquipmentID uint `gorm:"primaryKey" json:"equipmentId"`
	Lent        int  `gorm:"not null;default:0" json:"lent"`
	Available   int  `gorm:"not null;default:0" json:"available"`

	UpdatedAt time.Time `json:"updatedAt"`
}

func (Category) TableName() string  { return CategoryTable }
func (Equipment) TableName() string { return EquipmentTable }
func (Inventory) TableName() string { return InventoryTable }
