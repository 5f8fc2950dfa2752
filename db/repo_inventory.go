// db/repo_inventory.go
package db

import (
	"Gin_postgres_redis_equipment_reserve/models"
	"context"
	"strings"
)

// InventoryRow 浏览页的一行：设备 + 分类 + 库存计数
type InventoryRow struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	IsOnsiteOnly  bool   `json:"onsite"`
	WarrantyYears int    `json:"warranty"`
	CategoryID    uint   `json:"categoryId"`
	CategoryName  string `json:"categoryName"`
	Available     int    `json:"available"`
	Lent          int    `json:"lent"`
}

type InventoryQuery struct {
	Q          string // 模糊搜索：名称/描述
	CategoryID uint   // 0 = 不过滤
	SortBy     string
	SortOrder  string // "asc"（默认）/ "desc"
	Page       int
	Size       int
}

type PagedInventory struct {
	Items []InventoryRow `json:"items"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
	Size  int            `json:"size"`
}

// 可排序字段白名单；未知字段静默回落到默认顺序
var sortColumns = map[string]string{
	"name":           "e.name",
	"description":    "e.description",
	"category_name":  "c.name",
	"available":      "i.available",
	"lent":           "i.lent",
	"warranty_years": "e.warranty_years",
}

func sortColumn(field string) (string, bool) {
	col, ok := sortColumns[field]
	return col, ok
}

// clampPage 把页码收进 [1, pages]；pages 至少为 1
func clampPage(page, size int, total int64) (int, int) {
	pages := int((total + int64(size) - 1) / int64(size))
	if pages < 1 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}
	return page, pages
}

// ListInventory 只读：过滤 + 排序 + 分页，越界页码收敛到首/末页而不是报错
func (r *Repo) ListInventory(ctx context.Context, q InventoryQuery) (*PagedInventory, error) {
	if q.Size <= 0 || q.Size > 100 {
		q.Size = 10
	}
	if q.SortOrder != "desc" {
		q.SortOrder = "asc"
	}

	base := r.DB.WithContext(ctx).
		Table(models.InventoryTable + " i").
		Joins("JOIN " + models.EquipmentTable + " e ON e.id = i.equipment_id").
		Joins("JOIN " + models.CategoryTable + " c ON c.id = e.category_id")

	if s := strings.TrimSpace(q.Q); s != "" {
		pat := "%" + strings.ToLower(s) + "%"
		base = base.Where("LOWER(e.name) LIKE ? OR LOWER(e.description) LIKE ?", pat, pat)
	}
	if q.CategoryID > 0 {
		base = base.Where("e.category_id = ?", q.CategoryID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	page, pages := clampPage(q.Page, q.Size, total)

	order := "e.id ASC"
	if col, ok := sortColumn(q.SortBy); ok {
		order = col + " ASC"
		if q.SortOrder == "desc" {
			order = col + " DESC"
		}
	}

	var rows []InventoryRow
	if err := base.
		Select(`
			e.id, e.name, e.description, e.is_onsite_only, e.warranty_years,
			e.category_id, c.name AS category_name,
			i.available, i.lent
		`).
		Order(order).
		Offset((page - 1) * q.Size).
		Limit(q.Size).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	return &PagedInventory{
		Items: rows, Total: total,
		Page: page, Pages: pages, Size: q.Size,
	}, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var cs []models.Category
	err := r.DB.WithContext(ctx).Order("id").Find(&cs).Error
	return cs, err
}

// InventoryStats 首页的汇总数字
type InventoryStats struct {
	EquipmentCount int64 `json:"numEquipment"`
	AvailableUnits int64 `json:"numAvailable"`
	CategoryCount  int64 `json:"numCategories"`
}

func (r *Repo) GetInventoryStats(ctx context.Context) (*InventoryStats, error) {
	var st InventoryStats
	if err := r.DB.WithContext(ctx).Model(&models.Equipment{}).Count(&st.EquipmentCount).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(&models.Inventory{}).
		Select("COALESCE(SUM(available), 0)").Scan(&st.AvailableUnits).Error; err != nil {
		return nil, err
	}
	if err := r.DB.WithContext(ctx).Model(&models.Category{}).Count(&st.CategoryCount).Error; err != nil {
		return nil, err
	}
	return &st, nil
}
