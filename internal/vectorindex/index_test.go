package vectorindex

import (
	"strings"
	"testing"
)

func TestBuildQuery_OverFetch(t *testing.T) {
	t.Run("small k over-fetches to the floor", func(t *testing.T) {
		sql, _ := buildQuery(Filter{}, 4)
		if !strings.Contains(sql, "LIMIT 8") {
			t.Errorf("expected LIMIT 8 for k=4, got: %s", sql)
		}
	})

	t.Run("large k keeps its own limit", func(t *testing.T) {
		sql, _ := buildQuery(Filter{}, 20)
		if !strings.Contains(sql, "LIMIT 20") {
			t.Errorf("expected LIMIT 20 for k=20, got: %s", sql)
		}
	})
}

func TestBuildQuery_UnitFilter(t *testing.T) {
	sql, args := buildQuery(Filter{UnitID: "A-101"}, 4)
	if !strings.Contains(sql, "unit_id = $2") {
		t.Errorf("expected unit filter clause, got: %s", sql)
	}
	if len(args) != 1 || args[0] != "A-101" {
		t.Errorf("expected unit arg, got: %#v", args)
	}

	sql, args = buildQuery(Filter{}, 4)
	if strings.Contains(sql, "unit_id = $2") {
		t.Errorf("unexpected unit filter without unit: %s", sql)
	}
	if len(args) != 0 {
		t.Errorf("expected no args, got: %#v", args)
	}
}

func TestTruncate(t *testing.T) {
	results := []Result{
		{Text: "a", Distance: 0.1},
		{Text: "b", Distance: 0.2},
		{Text: "c", Distance: 0.3},
	}

	t.Run("over-fetched candidates drop to k", func(t *testing.T) {
		got := truncate(results, 2)
		if len(got) != 2 {
			t.Fatalf("expected 2 results, got %d", len(got))
		}
		if got[0].Text != "a" || got[1].Text != "b" {
			t.Errorf("truncation must keep the distance order, got %+v", got)
		}
	})

	t.Run("fewer than k pass through", func(t *testing.T) {
		if got := truncate(results, 10); len(got) != 3 {
			t.Errorf("expected all 3 results, got %d", len(got))
		}
	})

	t.Run("exactly k passes through", func(t *testing.T) {
		if got := truncate(results, 3); len(got) != 3 {
			t.Errorf("expected 3 results, got %d", len(got))
		}
	})

	t.Run("empty stays empty", func(t *testing.T) {
		if got := truncate(nil, 4); len(got) != 0 {
			t.Errorf("expected no results, got %d", len(got))
		}
	})
}

func TestBuildQuery_OrdersByDistance(t *testing.T) {
	sql, _ := buildQuery(Filter{}, 4)
	if !strings.Contains(sql, "ORDER BY embedding <=> $1") {
		t.Errorf("expected ascending distance ordering, got: %s", sql)
	}
}
