package app

import (
	"Gin_postgres_redis_equipment_reserve/db"
	"Gin_postgres_redis_equipment_reserve/models"
	"Gin_postgres_redis_equipment_reserve/session"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AppSessionCookie = "app_session"

// resolveSession 从 Cookie 解析会话并拉账号行；失败返回 nil
func resolveSession(c *gin.Context, appSess *session.AppSessionStore, repo *db.Repo) *models.Account {
	ck, err := c.Request.Cookie(AppSessionCookie)
	if err != nil || ck.Value == "" {
		return nil
	}
	as, err := appSess.Get(c.Request.Context(), ck.Value)
	if err != nil {
		return nil
	}
	a, err := repo.FindAccountByID(c.Request.Context(), as.AccountID)
	if err != nil {
		// 账号已删，顺手清掉残留会话
		_ = appSess.Delete(c.Request.Context(), ck.Value)
		return nil
	}
	return a
}

// Identify 软鉴权：有有效会话就把身份放进 Context，没有也放行。
// 预约相关端点需要自己检查身份并按业务 JSON 形状报错，所以不能用硬中断。
func Identify(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		if a := resolveSession(c, appSess, repo); a != nil {
			c.Set("accountID", a.ID)
			c.Set("username", a.UserName)
			c.Set("isAdmin", a.Role.Type == models.RoleAdmin)
		}
		c.Next()
	}
}

// AuthRequired 硬鉴权：没有会话直接 401，带上登录页提示
func AuthRequired(appSess *session.AppSessionStore, repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		a := resolveSession(c, appSess, repo)
		if a == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized", "redirect": "/login"})
			return
		}
		c.Set("accountID", a.ID)
		c.Set("username", a.UserName)
		c.Set("isAdmin", a.Role.Type == models.RoleAdmin)
		c.Next()
	}
}

func AdminOnly(repo *db.Repo) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get("accountID")
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		aid, _ := v.(uint)
		a, err := repo.FindAccountByID(c.Request.Context(), aid)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, H{"error": "unauthorized"})
			return
		}
		if a.Role.Type != models.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
