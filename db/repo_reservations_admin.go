// db/repo_reservations_admin.go
package db

import (
	"Gin_postgres_redis_equipment_reserve/models"
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AdminReservationRow struct {
	ID        uint      `json:"id"`
	AccountID uint      `json:"accountId"`
	UserName  string    `json:"userName"`
	Status    string    `json:"status"`
	ItemCount int64     `json:"itemCount"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type AdminReservationsQuery struct {
	Status string // "", "pending", "approved", "rejected"
	Page   int
	Size   int
}

type PagedAdminReservations struct {
	Total int64                 `json:"total"`
	Items []AdminReservationRow `json:"items"`
}

func (r *Repo) ListAllReservations(ctx context.Context, q AdminReservationsQuery) (*PagedAdminReservations, error) {
	if q.Page <= 0 {
		q.Page = 1
	}
	if q.Size <= 0 || q.Size > 200 {
		q.Size = 20
	}

	qry := r.DB.WithContext(ctx).
		Table(models.ReservationTable+" rv").
		Joins("JOIN "+models.ReservationStatusTable+" rs ON rs.reservation_id = rv.id").
		Joins("JOIN "+models.AccountTable+" a ON a.id = rv.account_id")
	if q.Status != "" {
		qry = qry.Where("rs.status = ?", q.Status)
	}

	var total int64
	if err := qry.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []AdminReservationRow
	if err := qry.
		Select(`
			rv.id, rv.account_id, a.user_name, rs.status,
			(SELECT COUNT(*) FROM `+models.LineItemTable+` li WHERE li.reservation_id = rv.id) AS item_count,
			rv.created_at, rv.updated_at
		`).
		Order("rv.created_at DESC").
		Offset((q.Page - 1) * q.Size).
		Limit(q.Size).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return &PagedAdminReservations{Total: total, Items: rows}, nil
}

// SetReservationStatus 审批：状态行锁内改写 + 同事务落审计日志
func (r *Repo) SetReservationStatus(ctx context.Context, reservationID uint, status string, actorID uint, actorUsername string, reason *string) (*models.StatusLog, error) {
	var logRow *models.StatusLog
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rs models.ReservationStatus
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&rs, "reservation_id = ?", reservationID).Error; err != nil {
			return translate(err)
		}
		old := rs.Status
		if err := tx.Model(&rs).Update("status", status).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Reservation{}).
			Where("id = ?", reservationID).
			Update("updated_at", gorm.Expr("NOW()")).Error; err != nil {
			return err
		}

		l := &models.StatusLog{
			ReservationID: reservationID,
			ActorID:       actorID,
			ActorUsername: actorUsername,
			OldStatus:     old,
			NewStatus:     status,
			Reason:        reason,
		}
		if err := tx.Create(l).Error; err != nil {
			return fmt.Errorf("insert status log: %w", err)
		}
		logRow = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return logRow, nil
}

func (r *Repo) ListStatusLog(ctx context.Context, page, size int) ([]models.StatusLog, int64, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 50
	}
	tx := r.DB.WithContext(ctx).Model(&models.StatusLog{})

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var logs []models.StatusLog
	if err := tx.
		Order("created_at DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&logs).Error; err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}
