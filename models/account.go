// models/account.go
package models

import "time"

const (
	AddressTable      = "addresses"
	RoleTable         = "roles"
	AccountTable      = "accounts"
	SignupStatusTable = "user_signup_status"
)

// 角色枚举（静态参照数据，Migrate 时播种）
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type Address struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	Street     string `gorm:"size:100;not null;uniqueIndex:uniq_address" json:"street"`
	City       string `gorm:"size:100;not null;uniqueIndex:uniq_address" json:"city"`
	Province   string `gorm:"size:100;not null;uniqueIndex:uniq_address" json:"province"`
	PostalCode string `gorm:"size:10;not null;uniqueIndex:uniq_address" json:"postalCode"`
}

type Role struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Type string `gorm:"size:10;uniqueIndex;not null" json:"type"` // admin / user
}

// Account 密码列只存 bcrypt 哈希，绝不回传前端
type Account struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	FirstName   string    `gorm:"size:100;not null" json:"firstName"`
	LastName    string    `gorm:"size:100;not null" json:"lastName"`
	UserName    string    `gorm:"size:100;uniqueIndex;not null" json:"userName"`
	Birthdate   time.Time `gorm:"not null" json:"birthdate"`
	PhoneNumber string    `gorm:"size:20" json:"phoneNumber"`
	Email       string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password    string    `gorm:"size:100;not null" json:"-"` // bcrypt hash
	AddressID   uint      `gorm:"index;not null" json:"addressId"`
	RoleID      uint      `gorm:"index;not null" json:"roleId"`

	Address Address `gorm:"foreignKey:AddressID" json:"address"`
	Role    Role    `gorm:"foreignKey:RoleID" json:"role"`

	LastLoginAt *time.Time `gorm:"index" json:"lastLoginAt,omitempty"`
	LastSeenAt  *time.Time `gorm:"index" json:"lastSeenAt,omitempty"`
	LoginCount  int64      `gorm:"not null;default:0" json:"loginCount"`
	LastLoginIP string     `gorm:"size:45" json:"-"`
	LastLoginUA string     `gorm:"size:255" json:"-"`

	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Credentials []Credential `gorm:"foreignKey:AccountID" json:"-"`
}

// SignupStatus 注册审核：与 Account 一对一
type SignupStatus struct {
	AccountID uint      `gorm:"primaryKey" json:"accountId"`
	Status    string    `gorm:"size:10;not null" json:"status"` // pending/approved/rejected
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Address) TableName() string      { return AddressTable }
func (Role) TableName() string         { return RoleTable }
func (Account) TableName() string      { return AccountTable }
func (SignupStatus) TableName() string { return SignupStatusTable }
