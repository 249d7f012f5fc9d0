package calculator

import (
	"testing"

	"ycreport/internal/model"
)

func TestRuleYouthNotExceedAll(t *testing.T) {
	r := model.NewConsolidatedRow("斗六", "雲東區")
	r.BapYouthTotal = 10
	r.BapAllTotal = 8
	errs := ValidateRow(&r)
	if !containsString(errs, "青年受浸不能超过全召會受浸") {
		t.Fatalf("expected rule error, got: %v", errs)
	}
}

func TestRuleNegativeValue(t *testing.T) {
	r := model.NewConsolidatedRow("斗六", "雲東區")
	r.SunYABase = -1
	errs := ValidateRow(&r)
	if !containsString(errs, "人数不能为负数: sun_ya_base") {
		t.Fatalf("expected rule error, got: %v", errs)
	}
}

func TestValidateRowsSkipsAggregates(t *testing.T) {
	sub := model.NewConsolidatedRow("雲東區 小計", "雲東區")
	sub.IsSubtotal = true
	sub.BapYouthTotal = 5
	ok := model.NewConsolidatedRow("古坑", "雲東區")

	got := ValidateRows([]model.ConsolidatedRow{ok, sub})
	if len(got) != 0 {
		t.Fatalf("expected no errors, got: %v", got)
	}
}

func containsString(items []string, want string) bool {
	for _, it := range items {
		if it == want {
			return true
		}
	}
	return false
}
