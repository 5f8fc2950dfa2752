// controllers/reservation_controller.go
package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"Gin_postgres_redis_equipment_reserve/app"
	"Gin_postgres_redis_equipment_reserve/db"

	"github.com/gin-gonic/gin"
)

type ReservationController struct{ *Srv }

func NewReservationController(s *Srv) *ReservationController { return &ReservationController{Srv: s} }

// POST /add_to_reservation/:equipmentId
// 响应形状固定三种：成功 / 没货（业务拒绝，不是 HTTP 错误）/ 其它错误
func (rc *ReservationController) AddToReservation(c *gin.Context) {
	aid := currentAccountID(c)
	if aid == 0 {
		c.JSON(http.StatusOK, app.H{"success": false, "error": "User not logged in"})
		return
	}

	equipmentID, err := strconv.Atoi(c.Param("equipmentId"))
	if err != nil || equipmentID <= 0 {
		c.JSON(http.StatusOK, app.H{"success": false, "error": "invalid equipment id"})
		return
	}

	item, err := rc.Repo.AddToReservation(c.Request.Context(), aid, uint(equipmentID))
	switch {
	case errors.Is(err, db.ErrOutOfStock):
		c.JSON(http.StatusOK, app.H{"success": false, "text": "No such items left in inventory"})
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusOK, app.H{"success": false, "error": "equipment not found"})
	case err != nil:
		c.JSON(http.StatusOK, app.H{"success": false, "error": err.Error()})
	default:
		c.JSON(http.StatusOK, app.H{"success": true, "text": "Item added successfully", "item": item})
	}
}

// POST /remove_reservation/:reservationId （行项 id）
func (rc *ReservationController) RemoveReservation(c *gin.Context) {
	lineItemID, err := strconv.Atoi(c.Param("reservationId"))
	if err != nil || lineItemID <= 0 {
		c.JSON(http.StatusOK, app.H{"success": false, "message": "Reservation not found"})
		return
	}

	err = rc.Repo.RemoveReservation(c.Request.Context(), uint(lineItemID))
	switch {
	case errors.Is(err, db.ErrNotFound):
		c.JSON(http.StatusOK, app.H{"success": false, "message": "Reservation not found"})
	case err != nil:
		c.JSON(http.StatusOK, app.H{"success": false, "message": err.Error()})
	default:
		c.JSON(http.StatusOK, app.H{"success": true})
	}
}

// GET /view_reservations
func (rc *ReservationController) ViewReservations(c *gin.Context) {
	aid := currentAccountID(c)
	if aid == 0 {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized", "redirect": "/login"})
		return
	}

	rows, err := rc.Repo.ListReservations(c.Request.Context(), aid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, app.H{"reservations": rows})
}
