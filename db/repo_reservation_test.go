package db

import (
	"Gin_postgres_redis_equipment_reserve/models"
	"errors"
	"testing"
)

func TestReservationType(t *testing.T) {
	if got := reservationType(true); got != models.TypeOnsite {
		t.Errorf("reservationType(true) = %q, want %q", got, models.TypeOnsite)
	}
	if got := reservationType(false); got != models.TypeBorrow {
		t.Errorf("reservationType(false) = %q, want %q", got, models.TypeBorrow)
	}
}

func TestAddToReservation(t *testing.T) {
	r := testRepo(t)
	ctx := t.Context()

	t.Run("declined when out of stock", func(t *testing.T) {
		acct := seedAccount(t, r)
		eq := seedEquipment(t, r, false, 0, 3)

		_, err := r.AddToReservation(ctx, acct.ID, eq.ID)
		if !errors.Is(err, ErrOutOfStock) {
			t.Fatalf("want ErrOutOfStock, got %v", err)
		}

		inv := getInventory(t, r, eq.ID)
		if inv.Available != 0 || inv.Lent != 3 {
			t.Errorf("counters changed on declined add: available=%d lent=%d", inv.Available, inv.Lent)
		}
		var n int64
		r.DB.Model(&models.LineItem{}).Where("equipment_id = ?", eq.ID).Count(&n)
		if n != 0 {
			t.Errorf("declined add created %d line items", n)
		}
	})

	t.Run("unknown equipment is not found", func(t *testing.T) {
		acct := seedAccount(t, r)
		if _, err := r.AddToReservation(ctx, acct.ID, 0); !errors.Is(err, ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})

	t.Run("second add appends to existing pending reservation", func(t *testing.T) {
		acct := seedAccount(t, r)
		eq1 := seedEquipment(t, r, false, 2, 0)
		eq2 := seedEquipment(t, r, false, 2, 0)

		li1, err := r.AddToReservation(ctx, acct.ID, eq1.ID)
		if err != nil {
			t.Fatalf("first add: %v", err)
		}
		li2, err := r.AddToReservation(ctx, acct.ID, eq2.ID)
		if err != nil {
			t.Fatalf("second add: %v", err)
		}
		if *li1.ReservationID != *li2.ReservationID {
			t.Errorf("adds created two headers: %d vs %d", *li1.ReservationID, *li2.ReservationID)
		}

		var n int64
		r.DB.Model(&models.Reservation{}).Where("account_id = ?", acct.ID).Count(&n)
		if n != 1 {
			t.Errorf("want exactly 1 reservation header, got %d", n)
		}
	})

	t.Run("type derived from onsite flag", func(t *testing.T) {
		acct := seedAccount(t, r)
		eq := seedEquipment(t, r, true, 1, 0)

		li, err := r.AddToReservation(ctx, acct.ID, eq.ID)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if li.Type != models.TypeOnsite {
			t.Errorf("line item type = %q, want %q", li.Type, models.TypeOnsite)
		}
	})

	t.Run("successful add moves one unit from available to lent", func(t *testing.T) {
		acct := seedAccount(t, r)
		eq := seedEquipment(t, r, false, 1, 0)

		li, err := r.AddToReservation(ctx, acct.ID, eq.ID)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if li.ID == 0 {
			t.Fatal("line item not persisted")
		}
		inv := getInventory(t, r, eq.ID)
		if inv.Available != 0 || inv.Lent != 1 {
			t.Errorf("after add: available=%d lent=%d, want 0/1", inv.Available, inv.Lent)
		}

		var rs models.ReservationStatus
		if err := r.DB.First(&rs, "reservation_id = ?", *li.ReservationID).Error; err != nil {
			t.Fatalf("status row: %v", err)
		}
		if rs.Status != models.StatusPending {
			t.Errorf("new reservation status = %q, want pending", rs.Status)
		}
	})
}

func TestRemoveReservation(t *testing.T) {
	r := testRepo(t)
	ctx := t.Context()

	t.Run("unknown line item is not found", func(t *testing.T) {
		if err := r.RemoveReservation(ctx, 0); !errors.Is(err, ErrNotFound) {
			t.Fatalf("want ErrNotFound, got %v", err)
		}
	})

	t.Run("add then remove restores counters", func(t *testing.T) {
		acct := seedAccount(t, r)
		eq := seedEquipment(t, r, false, 4, 2)

		li, err := r.AddToReservation(ctx, acct.ID, eq.ID)
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if err := r.RemoveReservation(ctx, li.ID); err != nil {
			t.Fatalf("remove: %v", err)
		}

		inv := getInventory(t, r, eq.ID)
		if inv.Available != 4 || inv.Lent != 2 {
			t.Errorf("round trip: available=%d lent=%d, want 4/2", inv.Available, inv.Lent)
		}

		// 头表和状态行保留，即使行项清空
		var n int64
		r.DB.Model(&models.Reservation{}).Where("id = ?", *li.ReservationID).Count(&n)
		if n != 1 {
			t.Error("reservation header deleted after last line item removed")
		}
	})

	t.Run("lent plus available is invariant across a sequence", func(t *testing.T) {
		acct := seedAccount(t, r)
		eq := seedEquipment(t, r, false, 3, 1)
		const sum = 4

		var items []uint
		for i := 0; i < 3; i++ {
			li, err := r.AddToReservation(ctx, acct.ID, eq.ID)
			if err != nil {
				t.Fatalf("add %d: %v", i, err)
			}
			items = append(items, li.ID)
		}
		if err := r.RemoveReservation(ctx, items[0]); err != nil {
			t.Fatalf("remove: %v", err)
		}

		inv := getInventory(t, r, eq.ID)
		if inv.Available+inv.Lent != sum {
			t.Errorf("invariant broken: available=%d lent=%d sum=%d want %d",
				inv.Available, inv.Lent, inv.Available+inv.Lent, sum)
		}
		if inv.Available != 1 || inv.Lent != 3 {
			t.Errorf("after 3 adds + 1 remove: available=%d lent=%d, want 1/3", inv.Available, inv.Lent)
		}
	})
}

func TestListReservations(t *testing.T) {
	r := testRepo(t)
	ctx := t.Context()

	acct := seedAccount(t, r)
	eq := seedEquipment(t, r, false, 2, 0)

	if _, err := r.AddToReservation(ctx, acct.ID, eq.ID); err != nil {
		t.Fatalf("add: %v", err)
	}

	views, err := r.ListReservations(ctx, acct.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("want 1 reservation, got %d", len(views))
	}
	v := views[0]
	if v.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", v.Status)
	}
	if len(v.Items) != 1 {
		t.Fatalf("want 1 line item, got %d", len(v.Items))
	}
	if v.Items[0].EquipmentName != eq.Name {
		t.Errorf("equipment name = %q, want %q", v.Items[0].EquipmentName, eq.Name)
	}
}
