package db

import (
	"testing"
)

func TestSortColumn(t *testing.T) {
	for field, want := range map[string]string{
		"name":           "e.name",
		"available":      "i.available",
		"lent":           "i.lent",
		"category_name":  "c.name",
		"warranty_years": "e.warranty_years",
	} {
		col, ok := sortColumn(field)
		if !ok || col != want {
			t.Errorf("sortColumn(%q) = %q, %v; want %q, true", field, col, ok, want)
		}
	}

	// 白名单以外的字段名绝不能进 ORDER BY
	for _, field := range []string{"", "id; DROP TABLE accounts", "password", "e.name"} {
		if _, ok := sortColumn(field); ok {
			t.Errorf("sortColumn(%q) accepted, want rejection", field)
		}
	}
}

func TestClampPage(t *testing.T) {
	cases := []struct {
		name      string
		page      int
		size      int
		total     int64
		wantPage  int
		wantPages int
	}{
		{"empty result still has one page", 1, 10, 0, 1, 1},
		{"negative page clamps to first", -3, 10, 25, 1, 3},
		{"beyond last clamps to last", 99, 10, 25, 3, 3},
		{"exact boundary", 3, 10, 30, 3, 3},
		{"in range untouched", 2, 10, 25, 2, 3},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, pages := clampPage(tc.page, tc.size, tc.total)
			if page != tc.wantPage || pages != tc.wantPages {
				t.Errorf("clampPage(%d, %d, %d) = (%d, %d), want (%d, %d)",
					tc.page, tc.size, tc.total, page, pages, tc.wantPage, tc.wantPages)
			}
		})
	}
}

func TestListInventory(t *testing.T) {
	r := testRepo(t)
	ctx := t.Context()

	// 三件设备，两个分类；用唯一描述词把本测试的数据圈出来
	marker := "marker_" + uniq()
	eqA := seedEquipment(t, r, false, 5, 0)
	eqB := seedEquipment(t, r, false, 1, 2)
	eqC := seedEquipment(t, r, true, 0, 4)
	for _, id := range []uint{eqA.ID, eqB.ID, eqC.ID} {
		if err := r.DB.Table("equipment_details").Where("id = ?", id).
			Update("description", "shared "+marker).Error; err != nil {
			t.Fatalf("tag equipment: %v", err)
		}
	}

	t.Run("text filter matches name or description", func(t *testing.T) {
		res, err := r.ListInventory(ctx, InventoryQuery{Q: marker, Size: 50})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 3 {
			t.Errorf("total = %d, want 3", res.Total)
		}
	})

	t.Run("category filter returns only that category", func(t *testing.T) {
		res, err := r.ListInventory(ctx, InventoryQuery{Q: marker, CategoryID: eqA.CategoryID, Size: 50})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Total != 1 {
			t.Fatalf("total = %d, want 1", res.Total)
		}
		if res.Items[0].ID != eqA.ID {
			t.Errorf("got equipment %d, want %d", res.Items[0].ID, eqA.ID)
		}
		if res.Items[0].Available != 5 || res.Items[0].Lent != 0 {
			t.Errorf("counters: available=%d lent=%d, want 5/0", res.Items[0].Available, res.Items[0].Lent)
		}
	})

	t.Run("page beyond last clamps to last page", func(t *testing.T) {
		res, err := r.ListInventory(ctx, InventoryQuery{Q: marker, Size: 2, Page: 99})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if res.Page != 2 || res.Pages != 2 {
			t.Errorf("page=%d pages=%d, want 2/2", res.Page, res.Pages)
		}
		if len(res.Items) != 1 {
			t.Errorf("last page has %d items, want 1", len(res.Items))
		}
	})

	t.Run("sort by available descending", func(t *testing.T) {
		res, err := r.ListInventory(ctx, InventoryQuery{
			Q: marker, SortBy: "available", SortOrder: "desc", Size: 50,
		})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 3 {
			t.Fatalf("got %d items, want 3", len(res.Items))
		}
		if res.Items[0].ID != eqA.ID || res.Items[2].ID != eqC.ID {
			t.Errorf("order = [%d %d %d], want [%d * %d]",
				res.Items[0].ID, res.Items[1].ID, res.Items[2].ID, eqA.ID, eqC.ID)
		}
	})

	t.Run("unknown sort field falls back to default order", func(t *testing.T) {
		res, err := r.ListInventory(ctx, InventoryQuery{Q: marker, SortBy: "bogus", Size: 50})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(res.Items) != 3 {
			t.Fatalf("got %d items, want 3", len(res.Items))
		}
		// 默认按设备 id 升序
		if res.Items[0].ID != eqA.ID || res.Items[1].ID != eqB.ID || res.Items[2].ID != eqC.ID {
			t.Errorf("default order broken: [%d %d %d]", res.Items[0].ID, res.Items[1].ID, res.Items[2].ID)
		}
	})
}
