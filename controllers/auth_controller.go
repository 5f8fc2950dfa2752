// controllers/auth_controller.go
package controllers

import (
	"net/http"
	"strings"
	"time"

	"Gin_postgres_redis_equipment_reserve/app"
	"Gin_postgres_redis_equipment_reserve/db"
	"Gin_postgres_redis_equipment_reserve/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// ===== 注册 =====

type registerReq struct {
	FirstName   string `json:"firstName" binding:"required"`
	LastName    string `json:"lastName" binding:"required"`
	UserName    string `json:"username" binding:"required"`
	Birthdate   string `json:"birthdate" binding:"required"` // YYYY-MM-DD
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	Street      string `json:"street" binding:"required"`
	City        string `json:"city" binding:"required"`
	Province    string `json:"province" binding:"required"`
	PostalCode  string `json:"postalCode" binding:"required"`
}

// 开放注册，但账号先进待审核状态
func (s *Srv) Register(c *gin.Context) {
	var in registerReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}
	bd, err := time.Parse("2006-01-02", in.Birthdate)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid birthdate, expected YYYY-MM-DD"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.Cfg.BcryptCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}

	var acct models.Account
	err = s.Repo.CreateAccount(c.Request.Context(), db.CreateAccountInput{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		UserName:     in.UserName,
		Birthdate:    bd,
		PhoneNumber:  in.PhoneNumber,
		Email:        in.Email,
		PasswordHash: string(hash),
		RoleType:     models.RoleUser,
		SignupStatus: models.StatusPending,
		Address: models.Address{
			Street: in.Street, City: in.City,
			Province: in.Province, PostalCode: in.PostalCode,
		},
	}, &acct)
	if err != nil {
		if err == db.ErrDuplicate {
			c.JSON(http.StatusConflict, app.H{"error": "username or email already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, app.H{"ok": true, "accountId": acct.ID, "signupStatus": models.StatusPending})
}

// ===== 登录 / 登出 =====

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// 登录：bcrypt 校验，成功发会话 Cookie，按角色给前端跳转目标
func (s *Srv) Login(c *gin.Context) {
	var in loginReq
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	a, err := s.Repo.FindAccountByUsername(c.Request.Context(), in.Username)
	if err != nil {
		// 账号不存在和密码错误对外不区分
		c.JSON(http.StatusUnauthorized, app.H{"error": "Invalid username or password."})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(a.Password), []byte(in.Password)) != nil {
		c.JSON(http.StatusUnauthorized, app.H{"error": "Invalid username or password."})
		return
	}

	if err := s.issueSession(c.Request.Context(), c.Writer, a.ID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "create app session failed"})
		return
	}

	redirect := "/"
	if a.Role.Type == models.RoleAdmin {
		redirect = "/admin_dashboard"
	}
	c.JSON(http.StatusOK, app.H{
		"ok":       true,
		"redirect": redirect,
		"account": app.H{
			"id":       a.ID,
			"username": a.UserName,
			"role":     a.Role.Type,
		},
	})
}

// 登出：删 Redis 会话，会话 Cookie 置空
func (s *Srv) Logout(c *gin.Context) {
	if ck, err := c.Request.Cookie(app.AppSessionCookie); err == nil && ck.Value != "" {
		_ = s.AppSess.Delete(c.Request.Context(), ck.Value)
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1, // 删除
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   strings.HasPrefix(s.WebOrigin, "https://"),
	})
	c.JSON(http.StatusOK, app.H{"ok": true, "redirect": "/login"})
}

func (s *Srv) WhoAmI(c *app.Ctx) {
	aid := currentAccountID(c)
	if aid == 0 {
		c.JSON(http.StatusUnauthorized, app.H{"error": "unauthorized"})
		return
	}
	username, _ := c.Get("username")
	isAdmin, _ := c.Get("isAdmin")
	c.JSON(http.StatusOK, app.H{
		"accountID": aid,
		"username":  username,
		"isAdmin":   isAdmin,
	})
}
