package db

import (
	"Gin_postgres_redis_equipment_reserve/models"
	"fmt"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var seedSeq atomic.Int64

// testRepo 需要真实 Postgres；没配 TEST_DATABASE_URL 就跳过
func testRepo(t *testing.T) *Repo {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database test")
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := Migrate(gdb); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewRepo(gdb)
}

// 每个 fixture 用全局唯一后缀，测试之间互不干扰
func uniq() string {
	return fmt.Sprintf("%d_%d", time.Now().UnixNano(), seedSeq.Add(1))
}

func seedEquipment(t *testing.T, r *Repo, onsiteOnly bool, available, lent int) *models.Equipment {
	t.Helper()
	u := uniq()
	cat := models.Category{Name: "cat_" + u}
	if err := r.DB.Create(&cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	eq := models.Equipment{
		CategoryID:    cat.ID,
		Name:          "equip_" + u,
		Description:   "test equipment " + u,
		IsOnsiteOnly:  onsiteOnly,
		WarrantyYears: 1,
	}
	if err := r.DB.Create(&eq).Error; err != nil {
		t.Fatalf("seed equipment: %v", err)
	}
	inv := models.Inventory{EquipmentID: eq.ID, Available: available, Lent: lent}
	if err := r.DB.Create(&inv).Error; err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	return &eq
}

func seedAccount(t *testing.T, r *Repo) *models.Account {
	t.Helper()
	u := uniq()
	var acct models.Account
	err := r.CreateAccount(t.Context(), CreateAccountInput{
		FirstName:    "Test",
		LastName:     "User",
		UserName:     "user_" + u,
		Birthdate:    time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC),
		Email:        "user_" + u + "@example.com",
		PasswordHash: "x",
		RoleType:     models.RoleUser,
		SignupStatus: models.StatusApproved,
		Address: models.Address{
			Street: "street " + u, City: "city",
			Province: "province", PostalCode: "00000",
		},
	}, &acct)
	if err != nil {
		t.Fatalf("seed account: %v", err)
	}
	return &acct
}

func getInventory(t *testing.T, r *Repo, equipmentID uint) models.Inventory {
	t.Helper()
	var inv models.Inventory
	if err := r.DB.First(&inv, "equipment_id = ?", equipmentID).Error; err != nil {
		t.Fatalf("load inventory: %v", err)
	}
	return inv
}
