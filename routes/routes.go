package routes

import (
	"Gin_postgres_redis_equipment_reserve/app"
	"Gin_postgres_redis_equipment_reserve/controllers"
	"time"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	// 控制器与依赖
	s := controllers.GetSrv(a)
	invCtl := controllers.NewInventoryController(s, a.RDB)
	resvCtl := controllers.NewReservationController(s)
	adminCtl := controllers.NewAdminController(s)

	// 复用的中间件
	identifyMW := app.Identify(s.AppSess, s.Repo)
	authMW := app.AuthRequired(s.AppSess, s.Repo)
	adminMW := app.AdminOnly(s.Repo)
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// ------------------------------
	// 公开：首页 / 浏览 / 注册 / 登录
	// ------------------------------
	r.GET("/", invCtl.Index)
	r.GET("/inventory", invCtl.ListInventory)
	r.POST("/login/register", s.Register)
	r.POST("/login", s.Login)

	// ------------------------------
	// 预约（软鉴权：handler 自己按业务 JSON 形状报未登录）
	// ------------------------------
	resv := r.Group("", identifyMW, seenMW)
	{
		resv.POST("/add_to_reservation/:equipmentId", resvCtl.AddToReservation)
		resv.POST("/remove_reservation/:reservationId", resvCtl.RemoveReservation)
		resv.GET("/view_reservations", resvCtl.ViewReservations)
	}

	// ------------------------------
	// 会话相关（硬鉴权）
	// ------------------------------
	auth := r.Group("", authMW, seenMW)
	{
		auth.GET("/whoami", s.WhoAmI)
		auth.POST("/logout", s.Logout)
	}

	// ------------------------------
	// Passkey
	// ------------------------------
	wa := r.Group("/webauthn")
	{
		wa.POST("/login/begin", s.BeginPasskeyLogin)
		wa.POST("/login/finish", s.FinishPasskeyLogin)
	}
	waAuth := wa.Group("", authMW, seenMW)
	{
		waAuth.POST("/add/begin", s.BeginAddPasskey)
		waAuth.POST("/add/finish", s.FinishAddPasskey)
	}

	// ------------------------------
	// 管理后台
	// ------------------------------
	admin := r.Group("/admin", authMW, adminMW)
	{
		admin.GET("/reservations", adminCtl.ListReservations)
		admin.POST("/reservations/:id/status", adminCtl.SetReservationStatus)
		admin.GET("/status_log", adminCtl.ListStatusLog)

		admin.GET("/signups", adminCtl.ListSignups)
		admin.POST("/signups/:id/status", adminCtl.SetSignupStatus)

		admin.GET("/accounts", adminCtl.ListAccounts)
		admin.DELETE("/accounts/:id", adminCtl.DeleteAccount)
	}
}
