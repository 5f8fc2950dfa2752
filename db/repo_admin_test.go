package db

import (
	"Gin_postgres_redis_equipment_reserve/models"
	"errors"
	"testing"
	"time"
)

func TestCreateAccountSignupFlow(t *testing.T) {
	r := testRepo(t)
	ctx := t.Context()

	u := uniq()
	in := CreateAccountInput{
		FirstName:    "New",
		LastName:     "User",
		UserName:     "signup_" + u,
		Birthdate:    time.Date(1995, 6, 1, 0, 0, 0, 0, time.UTC),
		Email:        "signup_" + u + "@example.com",
		PasswordHash: "x",
		RoleType:     models.RoleUser,
		SignupStatus: models.StatusPending,
		Address: models.Address{
			Street: "street " + u, City: "city",
			Province: "province", PostalCode: "00000",
		},
	}

	var acct models.Account
	if err := r.CreateAccount(ctx, in, &acct); err != nil {
		t.Fatalf("create: %v", err)
	}

	t.Run("registration starts in pending signup status", func(t *testing.T) {
		var ss models.SignupStatus
		if err := r.DB.First(&ss, "account_id = ?", acct.ID).Error; err != nil {
			t.Fatalf("signup status row: %v", err)
		}
		if ss.Status != models.StatusPending {
			t.Errorf("status = %q, want pending", ss.Status)
		}
	})

	t.Run("duplicate username is rejected", func(t *testing.T) {
		dup := in
		dup.Email = "other_" + u + "@example.com"
		var a2 models.Account
		if err := r.CreateAccount(ctx, dup, &a2); !errors.Is(err, ErrDuplicate) {
			t.Fatalf("want ErrDuplicate, got %v", err)
		}
	})

	t.Run("approve updates the status row", func(t *testing.T) {
		if err := r.SetSignupStatus(ctx, acct.ID, models.StatusApproved); err != nil {
			t.Fatalf("set status: %v", err)
		}
		var ss models.SignupStatus
		if err := r.DB.First(&ss, "account_id = ?", acct.ID).Error; err != nil {
			t.Fatalf("signup status row: %v", err)
		}
		if ss.Status != models.StatusApproved {
			t.Errorf("status = %q, want approved", ss.Status)
		}
	})

	t.Run("unknown account is not found", func(t *testing.T) {
		if err := r.SetSignupStatus(ctx, 0, models.StatusApproved); !errors.Is(err, ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})
}

func TestSetReservationStatus(t *testing.T) {
	r := testRepo(t)
	ctx := t.Context()

	t.Run("unknown reservation is not found", func(t *testing.T) {
		admin := seedAccount(t, r)
		_, err := r.SetReservationStatus(ctx, 0, models.StatusApproved, admin.ID, admin.UserName, nil)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})

	t.Run("approval flips status and writes an audit row", func(t *testing.T) {
		admin := seedAccount(t, r)
		user := seedAccount(t, r)
		eq := seedEquipment(t, r, false, 1, 0)

		li, err := r.AddToReservation(ctx, user.ID, eq.ID)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		resvID := *li.ReservationID

		reason := "ok to lend"
		logRow, err := r.SetReservationStatus(ctx, resvID, models.StatusApproved, admin.ID, admin.UserName, &reason)
		if err != nil {
			t.Fatalf("set status: %v", err)
		}

		var rs models.ReservationStatus
		if err := r.DB.First(&rs, "reservation_id = ?", resvID).Error; err != nil {
			t.Fatalf("status row: %v", err)
		}
		if rs.Status != models.StatusApproved {
			t.Errorf("status = %q, want approved", rs.Status)
		}

		if logRow.ID == 0 {
			t.Fatal("audit row not persisted")
		}
		if logRow.OldStatus != models.StatusPending || logRow.NewStatus != models.StatusApproved {
			t.Errorf("audit transition %q -> %q, want pending -> approved", logRow.OldStatus, logRow.NewStatus)
		}
		if logRow.ActorID != admin.ID || logRow.ActorUsername != admin.UserName {
			t.Errorf("audit actor %d/%q, want %d/%q", logRow.ActorID, logRow.ActorUsername, admin.ID, admin.UserName)
		}
		if logRow.Reason == nil || *logRow.Reason != reason {
			t.Errorf("audit reason = %v, want %q", logRow.Reason, reason)
		}
	})
}
