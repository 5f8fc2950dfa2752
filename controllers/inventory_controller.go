// controllers/inventory_controller.go
package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"Gin_postgres_redis_equipment_reserve/app"
	"Gin_postgres_redis_equipment_reserve/db"
	"Gin_postgres_redis_equipment_reserve/models"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type InventoryController struct {
	*Srv
	rdb *redis.Client
}

func NewInventoryController(s *Srv, rdb *redis.Client) *InventoryController {
	return &InventoryController{Srv: s, rdb: rdb}
}

const (
	categoriesCacheKey = "eq:categories"
	categoriesCacheTTL = 5 * time.Minute
)

// parseInventoryQuery 把浏览页的 query 参数收进仓库层查询；
// 非法数字一律回落默认值，列表端点永不因参数报错
func parseInventoryQuery(c *gin.Context) db.InventoryQuery {
	q := db.InventoryQuery{
		Q:         c.Query("q"),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.DefaultQuery("sort_order", "asc"),
	}
	if v, err := strconv.Atoi(c.Query("category")); err == nil && v > 0 {
		q.CategoryID = uint(v)
	}
	if v, err := strconv.Atoi(c.DefaultQuery("items_per_page", "10")); err == nil {
		q.Size = v
	}
	if v, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		q.Page = v
	}
	return q
}

// GET /inventory?q=&category=&sort_by=&sort_order=&items_per_page=&page=
func (ic *InventoryController) ListInventory(c *gin.Context) {
	q := parseInventoryQuery(c)

	res, err := ic.Repo.ListInventory(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	cats, err := ic.cachedCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, app.H{
		"items":            res.Items,
		"total":            res.Total,
		"page":             res.Page,
		"pages":            res.Pages,
		"itemsPerPage":     res.Size,
		"categories":       cats,
		"selectedCategory": q.CategoryID,
		"sortBy":           q.SortBy,
		"sortOrder":        q.SortOrder,
		"searchQuery":      q.Q,
	})
}

// GET / 首页汇总数字
func (ic *InventoryController) Index(c *gin.Context) {
	st, err := ic.Repo.GetInventoryStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, st)
}

// 分类列表很少变，Redis 缓一会儿；缓存失效或挂了直接落库
func (ic *InventoryController) cachedCategories(ctx context.Context) ([]models.Category, error) {
	if b, err := ic.rdb.Get(ctx, categoriesCacheKey).Bytes(); err == nil {
		var cats []models.Category
		if json.Unmarshal(b, &cats) == nil {
			return cats, nil
		}
	}
	cats, err := ic.Repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(cats); err == nil {
		_ = ic.rdb.Set(ctx, categoriesCacheKey, b, categoriesCacheTTL).Err()
	}
	return cats, nil
}
