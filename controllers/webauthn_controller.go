// controllers/webauthn_controller.go
package controllers

import (
	"context"
	"time"

	"Gin_postgres_redis_equipment_reserve/app"
	"Gin_postgres_redis_equipment_reserve/models"

	"github.com/gin-gonic/gin"
	"github.com/go-webauthn/webauthn/protocol"
	"github.com/go-webauthn/webauthn/webauthn"
	"github.com/google/uuid"
)

// ===== 添加 Passkey（已登录账号绑定新凭据） =====

func (s *Srv) BeginAddPasskey(c *gin.Context) {
	aid := currentAccountID(c)
	if aid == 0 {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}
	ctx, cancel := context.WithTimeout(c, 3*time.Second)
	defer cancel()

	wUser, err := s.loadWAAccountByID(ctx, aid)
	if err != nil {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}

	opts, sd, err := s.WA.BeginRegistration(
		wUser,
		webauthn.WithResidentKeyRequirement(protocol.ResidentKeyRequirementRequired),
		webauthn.WithAuthenticatorSelection(protocol.AuthenticatorSelection{
			UserVerification: protocol.VerificationRequired,
		}),
	)
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}

	if err := s.Sess.SaveReg(ctx, wUser.acct.UserName, sd); err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}
	c.JSON(200, app.H{"opts": opts})
}

func (s *Srv) FinishAddPasskey(c *gin.Context) {
	aid := currentAccountID(c)
	if aid == 0 {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}
	ctx, cancel := context.WithTimeout(c, 3*time.Second)
	defer cancel()

	wUser, err := s.loadWAAccountByID(ctx, aid)
	if err != nil {
		c.JSON(401, app.H{"error": "unauthorized"})
		return
	}

	sd, err := s.Sess.LoadReg(ctx, wUser.acct.UserName)
	if err != nil {
		c.JSON(400, app.H{"error": "session expired or invalid"})
		return
	}

	cred, err := s.WA.FinishRegistration(wUser, *sd, c.Request)
	if err != nil {
		c.JSON(400, app.H{"error": err.Error()})
		return
	}

	if err := s.Repo.AddCredential(ctx, &models.Credential{
		AccountID:       wUser.acct.ID,
		CredentialID:    cred.ID,
		PublicKey:       cred.PublicKey,
		AttestationType: cred.AttestationType,
		AAGUID:          cred.Authenticator.AAGUID,
		SignCount:       cred.Authenticator.SignCount,
		CloneWarning:    cred.Authenticator.CloneWarning,
		BackupEligible:  cred.Flags.BackupEligible,
		BackupState:     cred.Flags.BackupState,
	}); err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}
	s.Sess.DelReg(ctx, wUser.acct.UserName)
	c.JSON(200, app.H{"ok": true})
}

// ===== Passkey 登录 =====

type passkeyLoginBeginReq struct {
	Username     string `json:"username"`
	Discoverable bool   `json:"discoverable"`
}
type passkeyLoginBeginResp struct {
	Options   *protocol.CredentialAssertion `json:"options"`
	SessionID string                        `json:"sessionId"`
}

func (s *Srv) BeginPasskeyLogin(c *gin.Context) {
	var req passkeyLoginBeginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, app.H{"error": "bad request"})
		return
	}
	ctx, cancel := context.WithTimeout(c, 3*time.Second)
	defer cancel()

	var (
		opts *protocol.CredentialAssertion
		sd   *webauthn.SessionData
		err  error
	)
	if req.Discoverable {
		opts, sd, err = s.WA.BeginDiscoverableLogin(webauthn.WithUserVerification(protocol.VerificationRequired))
	} else {
		wUser, err2 := s.loadWAAccountByUsername(ctx, req.Username)
		if err2 != nil {
			c.JSON(404, app.H{"error": "user not found"})
			return
		}
		opts, sd, err = s.WA.BeginLogin(wUser, webauthn.WithUserVerification(protocol.VerificationRequired))
	}
	if err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}

	sid := uuid.NewString()
	if err := s.Sess.SaveAuth(ctx, sid, sd); err != nil {
		c.JSON(500, app.H{"error": err.Error()})
		return
	}
	c.JSON(200, passkeyLoginBeginResp{Options: opts, SessionID: sid})
}

func (s *Srv) FinishPasskeyLogin(c *gin.Context) {
	sid := c.Query("sessionId")
	if sid == "" {
		c.JSON(400, app.H{"error": "missing sessionId"})
		return
	}
	ip, ua := c.ClientIP(), c.Request.UserAgent()

	ctx, cancel := context.WithTimeout(c, 3*time.Second)
	defer cancel()
	sd, err := s.Sess.LoadAuth(ctx, sid)
	if err != nil {
		c.JSON(400, app.H{"error": "session expired or invalid"})
		return
	}

	var accountID uint
	if username := c.Query("username"); username != "" {
		wUser, err := s.loadWAAccountByUsername(ctx, username)
		if err != nil {
			c.JSON(404, app.H{"error": "user not found"})
			return
		}
		cred, err := s.WA.FinishLogin(wUser, *sd, c.Request)
		if err != nil {
			c.JSON(401, app.H{"error": err.Error()})
			return
		}
		accountID = wUser.acct.ID
		_ = s.Repo.UpdateCredentialCounter(ctx, cred.ID, cred.Authenticator.SignCount, cred.Authenticator.CloneWarning)
		_ = s.Repo.TouchCredentialUsed(ctx, cred.ID)
	} else {
		handler := func(rawID, _ []byte) (webauthn.User, error) {
			a, _, err := s.Repo.FindAccountByCredentialID(ctx, rawID)
			if err != nil {
				return nil, protocol.ErrBadRequest.WithDetails("credential not found")
			}
			w, _ := s.loadWAAccountByID(ctx, a.ID)
			return w, nil
		}
		user, cred, err := s.WA.FinishPasskeyLogin(handler, *sd, c.Request)
		if err != nil {
			c.JSON(401, app.H{"error": err.Error()})
			return
		}
		accountID = user.(*waUser).acct.ID
		_ = s.Repo.UpdateCredentialCounter(ctx, cred.ID, cred.Authenticator.SignCount, cred.Authenticator.CloneWarning)
		_ = s.Repo.TouchCredentialUsed(ctx, cred.ID)
	}
	s.Sess.DelAuth(ctx, sid)

	if err := s.issueSession(ctx, c.Writer, accountID, ip, ua); err != nil {
		c.JSON(500, app.H{"error": "create app session failed"})
		return
	}
	c.JSON(200, app.H{"ok": true, "redirect": "/"})
}
