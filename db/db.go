package db

import (
	"Gin_postgres_redis_equipment_reserve/models"
	"fmt"
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	err = Migrate(DB)
	if err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return DB
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Address{}, &models.Role{}, &models.Account{}, &models.SignupStatus{},
		&models.Category{}, &models.Equipment{}, &models.Inventory{},
		&models.Reservation{}, &models.ReservationStatus{}, &models.LineItem{},
		&models.Credential{}, &models.StatusLog{},
	); err != nil {
		return err
	}

	// 角色是静态参照数据，直接播种
	if err := db.Exec(fmt.Sprintf(`
	  INSERT INTO %s (type) VALUES ('admin'), ('user')
	  ON CONFLICT (type) DO NOTHING;
	`, models.RoleTable)).Error; err != nil {
		return err
	}

	// 查待审批预约更快
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_pending
	  ON %s (reservation_id)
	  WHERE status = 'pending';
	`, models.ReservationStatusTable, models.ReservationStatusTable)).Error; err != nil {
		return err
	}

	return nil
}
