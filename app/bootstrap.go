// app/bootstrap.go
package app

import (
	"context"
	"log"

	"Gin_postgres_redis_equipment_reserve/db"
	"Gin_postgres_redis_equipment_reserve/models"

	"golang.org/x/crypto/bcrypt"
)

// BootstrapFirstAdmin 库里还没有管理员时，用环境变量建第一个
// （直接置为已审核通过，否则没人能进后台）
func BootstrapFirstAdmin(ctx context.Context, cfg Config, repo *db.Repo) {
	if cfg.BootstrapUsername == "" || cfg.BootstrapPassword == "" {
		return
	}
	n, err := repo.CountAdmins(ctx)
	if err != nil {
		log.Printf("bootstrap: count admins failed: %v", err)
		return
	}
	if n > 0 {
		return // 已经有管理员，跳过
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.BootstrapPassword), cfg.BcryptCost)
	if err != nil {
		log.Printf("bootstrap: hash password failed: %v", err)
		return
	}

	var acct models.Account
	if err := repo.CreateAccount(ctx, db.CreateAccountInput{
		FirstName:    "System",
		LastName:     "Admin",
		UserName:     cfg.BootstrapUsername,
		Email:        cfg.BootstrapEmail,
		PasswordHash: string(hash),
		RoleType:     models.RoleAdmin,
		SignupStatus: models.StatusApproved,
	}, &acct); err != nil {
		log.Printf("bootstrap: create admin failed: %v", err)
		return
	}
	log.Printf("[BOOTSTRAP] No admin found, created admin account %q (id=%d)", acct.UserName, acct.ID)
}
