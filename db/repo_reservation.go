// db/repo_reservation.go
package db

import (
	"Gin_postgres_redis_equipment_reserve/models"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 固定策略：借出日 = 当天，归还日 = 5 天后，用途统一标注
const (
	borrowDays     = 5
	defaultPurpose = "Reservation"
)

// reservationType 由设备的仅限现场标志推导
func reservationType(onsiteOnly bool) string {
	if onsiteOnly {
		return models.TypeOnsite
	}
	return models.TypeBorrow
}

// AddToReservation 整个多行序列跑在一个事务里：
//  1. 锁库存行，余量 <= 0 直接拒绝（业务拒绝，不是错误）
//  2. 锁账号行，串行化同一账号的 find-or-create，
//     并发下不会重复建 pending 预约
//  3. 追加行项 + gorm.Expr 原子增减计数
func (r *Repo) AddToReservation(ctx context.Context, accountID, equipmentID uint) (*models.LineItem, error) {
	var item *models.LineItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var eq models.Equipment
		if err := tx.First(&eq, "id = ?", equipmentID).Error; err != nil {
			return translate(err)
		}

		// 库存行可以不存在（目录里有、还没建库存）；存在才检查余量
		var inv models.Inventory
		invErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&inv, "equipment_id = ?", equipmentID).Error
		hasInv := invErr == nil
		if invErr != nil && !errors.Is(invErr, gorm.ErrRecordNotFound) {
			return invErr
		}
		if hasInv && inv.Available <= 0 {
			return ErrOutOfStock
		}

		var acct models.Account
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&acct, "id = ?", accountID).Error; err != nil {
			return translate(err)
		}

		var resv models.Reservation
		err := tx.
			Joins("JOIN "+models.ReservationStatusTable+" rs ON rs.reservation_id = "+models.ReservationTable+".id").
			Where(models.ReservationTable+".account_id = ? AND rs.status = ?", accountID, models.StatusPending).
			First(&resv).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			resv = models.Reservation{AccountID: accountID}
			if err := tx.Create(&resv).Error; err != nil {
				return err
			}
			if err := tx.Create(&models.ReservationStatus{
				ReservationID: resv.ID,
				Status:        models.StatusPending,
			}).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			// 追加到已有 pending 预约，刷新头表时间戳
			if err := tx.Model(&resv).Update("updated_at", gorm.Expr("NOW()")).Error; err != nil {
				return err
			}
		}

		now := time.Now().UTC()
		li := &models.LineItem{
			EquipmentID:   eq.ID,
			ReservationID: &resv.ID,
			BorrowDate:    now,
			ReturnDate:    now.AddDate(0, 0, borrowDays),
			Purpose:       defaultPurpose,
			Type:          reservationType(eq.IsOnsiteOnly),
		}
		if err := tx.Create(li).Error; err != nil {
			return err
		}

		if hasInv {
			if err := tx.Model(&models.Inventory{}).
				Where("equipment_id = ?", equipmentID).
				Updates(map[string]interface{}{
					"lent":      gorm.Expr("lent + 1"),
					"available": gorm.Expr("available - 1"),
				}).Error; err != nil {
				return err
			}
		}
		item = li
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// RemoveReservation 删行项并回补库存；没有库存行时静默跳过回补。
// 预约头即使空了也保留（连同 status 行）。
func (r *Repo) RemoveReservation(ctx context.Context, lineItemID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var li models.LineItem
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&li, "id = ?", lineItemID).Error; err != nil {
			return translate(err)
		}
		if err := tx.Delete(&li).Error; err != nil {
			return err
		}

		var inv models.Inventory
		invErr := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&inv, "equipment_id = ?", li.EquipmentID).Error
		if errors.Is(invErr, gorm.ErrRecordNotFound) {
			return nil
		}
		if invErr != nil {
			return invErr
		}
		return tx.Model(&models.Inventory{}).
			Where("equipment_id = ?", li.EquipmentID).
			Updates(map[string]interface{}{
				"lent":      gorm.Expr("lent - 1"),
				"available": gorm.Expr("available + 1"),
			}).Error
	})
}

// ReservationView 用户预约页：头 + 状态 + 行项
type ReservationView struct {
	ID        uint              `json:"id"`
	Status    string            `json:"status"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
	Items     []ReservationItem `json:"items"`
}

type ReservationItem struct {
	ID            uint      `json:"id"`
	ReservationID uint      `json:"-"`
	EquipmentID   uint      `json:"equipmentId"`
	EquipmentName string    `json:"equipmentName"`
	BorrowDate    time.Time `json:"borrowDate"`
	ReturnDate    time.Time `json:"returnDate"`
	Purpose       string    `json:"purpose"`
	Type          string    `json:"type"`
}

func (r *Repo) ListReservations(ctx context.Context, accountID uint) ([]ReservationView, error) {
	var heads []ReservationView
	if err := r.DB.WithContext(ctx).
		Table(models.ReservationTable+" rv").
		Select("rv.id, rs.status, rv.created_at, rv.updated_at").
		Joins("JOIN "+models.ReservationStatusTable+" rs ON rs.reservation_id = rv.id").
		Where("rv.account_id = ?", accountID).
		Order("rv.created_at DESC").
		Scan(&heads).Error; err != nil {
		return nil, err
	}
	if len(heads) == 0 {
		return []ReservationView{}, nil
	}

	ids := make([]uint, 0, len(heads))
	for _, h := range heads {
		ids = append(ids, h.ID)
	}

	var items []ReservationItem
	if err := r.DB.WithContext(ctx).
		Table(models.LineItemTable+" li").
		Select("li.id, li.reservation_id, li.equipment_id, e.name AS equipment_name, li.borrow_date, li.return_date, li.purpose, li.reservation_type AS type").
		Joins("JOIN "+models.EquipmentTable+" e ON e.id = li.equipment_id").
		Where("li.reservation_id IN ?", ids).
		Order("li.id").
		Scan(&items).Error; err != nil {
		return nil, err
	}

	byResv := make(map[uint][]ReservationItem, len(heads))
	for _, it := range items {
		byResv[it.ReservationID] = append(byResv[it.ReservationID], it)
	}
	for i := range heads {
		if its, ok := byResv[heads[i].ID]; ok {
			heads[i].Items = its
		} else {
			heads[i].Items = []ReservationItem{}
		}
	}
	return heads, nil
}
