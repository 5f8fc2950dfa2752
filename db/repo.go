package db

import (
	"Gin_postgres_redis_equipment_reserve/models"
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

// 仓库层统一的哨兵错误，handler 用 errors.Is 判定
var (
	ErrNotFound   = errors.New("not found")
	ErrOutOfStock = errors.New("no items left in inventory")
	ErrDuplicate  = errors.New("already exists")
)

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

// gorm 的 not-found 在仓库边界翻译成 ErrNotFound
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// Accounts

func (r *Repo) FindAccountByID(ctx context.Context, id uint) (*models.Account, error) {
	var a models.Account
	if err := r.DB.WithContext(ctx).Preload("Role").First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *Repo) FindAccountByUsername(ctx context.Context, username string) (*models.Account, error) {
	var a models.Account
	if err := r.DB.WithContext(ctx).Preload("Role").
		Where("user_name = ?", username).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (r *Repo) TouchAccountLogin(ctx context.Context, accountID uint, ip, ua string) error {
	// 用数据库时间，避免并发覆盖：NOW() + 计数自增
	return r.DB.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", accountID).
		Updates(map[string]interface{}{
			"last_login_at": gorm.Expr("NOW()"),
			"last_seen_at":  gorm.Expr("NOW()"),
			"login_count":   gorm.Expr("COALESCE(login_count, 0) + 1"),
			"last_login_ip": ip,
			"last_login_ua": ua,
		}).Error
}

func (r *Repo) TouchAccountSeen(ctx context.Context, accountID uint) error {
	return r.DB.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", accountID).
		Update("last_seen_at", gorm.Expr("NOW()")).Error
}

// CreateAccountInput 注册与首管引导共用
type CreateAccountInput struct {
	FirstName    string
	LastName     string
	UserName     string
	Birthdate    time.Time
	PhoneNumber  string
	Email        string
	PasswordHash string
	RoleType     string // models.RoleAdmin / models.RoleUser
	SignupStatus string // 初始审核状态
	Address      models.Address
}

// CreateAccount 地址按四元组 find-or-create，账号 + 审核状态同一事务落库
func (r *Repo) CreateAccount(ctx context.Context, in CreateAccountInput, acct *models.Account) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&models.Account{}).
			Where("user_name = ? OR email = ?", in.UserName, in.Email).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return ErrDuplicate
		}

		addr := in.Address
		if err := tx.Where(models.Address{
			Street: addr.Street, City: addr.City,
			Province: addr.Province, PostalCode: addr.PostalCode,
		}).FirstOrCreate(&addr).Error; err != nil {
			return err
		}

		var role models.Role
		if err := tx.Where("type = ?", in.RoleType).First(&role).Error; err != nil {
			return translate(err)
		}

		acct.FirstName = in.FirstName
		acct.LastName = in.LastName
		acct.UserName = in.UserName
		acct.Birthdate = in.Birthdate
		acct.PhoneNumber = in.PhoneNumber
		acct.Email = in.Email
		acct.Password = in.PasswordHash
		acct.AddressID = addr.ID
		acct.RoleID = role.ID
		if err := tx.Create(acct).Error; err != nil {
			return err
		}

		return tx.Create(&models.SignupStatus{
			AccountID: acct.ID,
			Status:    in.SignupStatus,
		}).Error
	})
}

func (r *Repo) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Table(models.AccountTable+" a").
		Joins("JOIN "+models.RoleTable+" ro ON ro.id = a.role_id").
		Where("ro.type = ?", models.RoleAdmin).
		Count(&n).Error
	return n, err
}

// 列表（分页 + 关键词，关键词匹配用户名/邮箱/姓名）
type ListAccountsResult struct {
	Accounts []models.Account `json:"accounts"`
	Total    int64            `json:"total"`
}

func (r *Repo) ListAccounts(ctx context.Context, q string, page, size int) (ListAccountsResult, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}

	tx := r.DB.WithContext(ctx).Model(&models.Account{}).Preload("Role")
	if q = strings.TrimSpace(q); q != "" {
		like := "%" + strings.ToLower(q) + "%"
		tx = tx.Where(
			"LOWER(user_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			like, like, like, like)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return ListAccountsResult{}, err
	}

	var accounts []models.Account
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&accounts).Error; err != nil {
		return ListAccountsResult{}, err
	}
	return ListAccountsResult{Accounts: accounts, Total: total}, nil
}

// 删除账号，连同凭据与审核状态一起删
func (r *Repo) DeleteAccountByID(ctx context.Context, id uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("account_id = ?", id).Delete(&models.Credential{}).Error; err != nil {
			return err
		}
		if err := tx.Where("account_id = ?", id).Delete(&models.SignupStatus{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Account{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// Signup approval

type SignupRow struct {
	AccountID uint   `json:"accountId"`
	UserName  string `json:"userName"`
	Email     string `json:"email"`
	Status    string `json:"status"`
}

func (r *Repo) ListSignups(ctx context.Context, status string) ([]SignupRow, error) {
	q := r.DB.WithContext(ctx).
		Table(models.SignupStatusTable+" s").
		Select("s.account_id, a.user_name, a.email, s.status").
		Joins("JOIN "+models.AccountTable+" a ON a.id = s.account_id").
		Order("s.account_id")
	if status != "" {
		q = q.Where("s.status = ?", status)
	}
	var rows []SignupRow
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repo) SetSignupStatus(ctx context.Context, accountID uint, status string) error {
	res := r.DB.WithContext(ctx).Model(&models.SignupStatus{}).
		Where("account_id = ?", accountID).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
