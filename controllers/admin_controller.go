// controllers/admin_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"Gin_postgres_redis_equipment_reserve/app"
	"Gin_postgres_redis_equipment_reserve/db"
	"Gin_postgres_redis_equipment_reserve/models"

	"github.com/gin-gonic/gin"
)

type AdminController struct{ *Srv }

func NewAdminController(s *Srv) *AdminController { return &AdminController{Srv: s} }

func validStatus(s string) bool {
	return s == models.StatusPending || s == models.StatusApproved || s == models.StatusRejected
}

// GET /admin/reservations?status=&page=&size=
func (ac *AdminController) ListReservations(c *gin.Context) {
	q := db.AdminReservationsQuery{Status: c.Query("status")}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Size, _ = strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := ac.Repo.ListAllReservations(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "total": res.Total, "items": res.Items})
}

type setStatusReq struct {
	Status string  `json:"status" binding:"required"`
	Reason *string `json:"reason"`
}

// POST /admin/reservations/:id/status  审批：approved / rejected（也允许打回 pending）
func (ac *AdminController) SetReservationStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid reservation id"})
		return
	}
	var in setStatusReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if !validStatus(in.Status) {
		c.JSON(http.StatusBadRequest, app.H{"error": "status must be pending/approved/rejected"})
		return
	}

	// 操作者信息来自鉴权中间件
	actorID := currentAccountID(c)
	actorNameRaw, _ := c.Get("username")
	actorName, _ := actorNameRaw.(string)
	if actorID == 0 || actorName == "" {
		c.JSON(http.StatusUnauthorized, app.H{"error": "missing user in context"})
		return
	}

	logRow, err := ac.Repo.SetReservationStatus(c.Request.Context(), uint(id), in.Status, actorID, actorName, in.Reason)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "reservation not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true, "statusLog": logRow})
}

// GET /admin/status_log?page=&size=
func (ac *AdminController) ListStatusLog(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "50"))

	logs, total, err := ac.Repo.ListStatusLog(c.Request.Context(), page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": total, "logs": logs})
}

// GET /admin/signups?status=
func (ac *AdminController) ListSignups(c *gin.Context) {
	rows, err := ac.Repo.ListSignups(c.Request.Context(), c.Query("status"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"signups": rows})
}

// POST /admin/signups/:id/status
func (ac *AdminController) SetSignupStatus(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid account id"})
		return
	}
	var in setStatusReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	if !validStatus(in.Status) {
		c.JSON(http.StatusBadRequest, app.H{"error": "status must be pending/approved/rejected"})
		return
	}

	if err := ac.Repo.SetSignupStatus(c.Request.Context(), uint(id), in.Status); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			c.JSON(http.StatusNotFound, app.H{"error": "signup not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"ok": true})
}

// GET /admin/accounts?q=&page=&size=
func (ac *AdminController) ListAccounts(c *gin.Context) {
	q := c.Query("q")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	res, err := ac.Repo.ListAccounts(c.Request.Context(), q, page, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"total": res.Total, "accounts": res.Accounts})
}

// DELETE /admin/accounts/:id
func (ac *AdminController) DeleteAccount(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid account id"})
		return
	}

	// 不允许删除自己，避免锁死
	if currentAccountID(c) == uint(id) {
		c.JSON(http.StatusBadRequest, app.H{"error": "cannot delete yourself"})
		return
	}

	// 管理员账号保护起来
	target, err := ac.Repo.FindAccountByID(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, app.H{"error": "account not found"})
		return
	}
	if target.Role.Type == models.RoleAdmin {
		c.JSON(http.StatusForbidden, app.H{"error": "cannot delete an admin"})
		return
	}

	if err := ac.Repo.DeleteAccountByID(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	// 撤销该账号的所有登录会话
	_ = ac.AppSess.RevokeAllForAccount(c.Request.Context(), uint(id))
	c.JSON(http.StatusOK, app.H{"ok": true})
}
