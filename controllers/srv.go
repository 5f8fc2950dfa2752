// controllers/srv.go
package controllers

import (
	"context"
	"encoding/binary"
	"net/http"
	"strings"
	"time"

	"Gin_postgres_redis_equipment_reserve/app"
	"Gin_postgres_redis_equipment_reserve/db"
	"Gin_postgres_redis_equipment_reserve/models"
	"Gin_postgres_redis_equipment_reserve/session"

	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
)

type Srv struct {
	WA        *webauthn.WebAuthn
	Repo      *db.Repo
	Sess      *session.Store
	AppSess   *session.AppSessionStore
	WebOrigin string
	Cfg       app.Config
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		WA:        a.WA,
		Repo:      db.NewRepo(a.DB),
		Sess:      session.NewStore(a.RDB, a.Config.SessionTTL),
		AppSess:   a.AppSessions(),
		WebOrigin: a.Config.WebOrigin,
		Cfg:       a.Config,
	}
}

// --- helpers ---

// 从 Context 取当前账号；没登录返回 0
func currentAccountID(c *app.Ctx) uint {
	v, ok := c.Get("accountID")
	if !ok {
		return 0
	}
	aid, _ := v.(uint)
	return aid
}

// 统一设置业务会话 Cookie
func (s *Srv) setAppCookie(w http.ResponseWriter, sessionID string, maxAge time.Duration) {
	secure := strings.HasPrefix(s.WebOrigin, "https://")
	http.SetCookie(w, &http.Cookie{
		Name:     app.AppSessionCookie,
		Value:    sessionID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   secure,
		MaxAge:   int(maxAge / time.Second),
	})
}

// 登录成功：创建会话 + 触发登录快照
func (s *Srv) issueSession(ctx context.Context, w http.ResponseWriter, accountID uint, ip, ua string) error {
	// 登录快照失败不阻塞发会话
	_ = s.Repo.TouchAccountLogin(ctx, accountID, ip, ua)
	id := uuid.NewString()
	if err := s.AppSess.Create(ctx, id, accountID); err != nil {
		return err
	}
	s.setAppCookie(w, id, 24*time.Hour)
	return nil
}

// WebAuthn: DB account -> waUser
type waUser struct {
	acct  models.Account
	creds []webauthn.Credential
}

// userHandle：账号整型主键编码成 8 字节
func (u *waUser) WebAuthnID() []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(u.acct.ID))
	return b
}
func (u *waUser) WebAuthnName() string                       { return u.acct.UserName }
func (u *waUser) WebAuthnDisplayName() string                { return u.acct.FirstName + " " + u.acct.LastName }
func (u *waUser) WebAuthnIcon() string                       { return "" }
func (u *waUser) WebAuthnCredentials() []webauthn.Credential { return u.creds }

func toWaCred(c models.Credential) webauthn.Credential {
	return webauthn.Credential{
		ID:              c.CredentialID,
		PublicKey:       c.PublicKey,
		AttestationType: c.AttestationType,
		Authenticator: webauthn.Authenticator{
			AAGUID:       c.AAGUID,
			SignCount:    c.SignCount,
			CloneWarning: c.CloneWarning,
		},
		Flags: webauthn.CredentialFlags{
			BackupEligible: c.BackupEligible,
			BackupState:    c.BackupState,
		},
	}
}

func (s *Srv) loadWAAccountByID(ctx context.Context, id uint) (*waUser, error) {
	a, err := s.Repo.FindAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cs, _ := s.Repo.LoadAccountCredentials(ctx, a.ID)
	ws := make([]webauthn.Credential, 0, len(cs))
	for _, c := range cs {
		ws = append(ws, toWaCred(c))
	}
	return &waUser{acct: *a, creds: ws}, nil
}

func (s *Srv) loadWAAccountByUsername(ctx context.Context, username string) (*waUser, error) {
	a, err := s.Repo.FindAccountByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	cs, _ := s.Repo.LoadAccountCredentials(ctx, a.ID)
	ws := make([]webauthn.Credential, 0, len(cs))
	for _, c := range cs {
		ws = append(ws, toWaCred(c))
	}
	return &waUser{acct: *a, creds: ws}, nil
}
