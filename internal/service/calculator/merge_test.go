package calculator

import (
	"testing"

	"ycreport/internal/model"
)

func withUnit(rows []model.ConsolidatedRow, name string, fn func(r *model.ConsolidatedRow)) []model.ConsolidatedRow {
	out := make([]model.ConsolidatedRow, len(rows))
	copy(out, rows)
	for i := range out {
		if out[i].Name == name {
			fn(&out[i])
		}
	}
	return out
}

func TestMergeRowSetsPolicy(t *testing.T) {
	engine := NewEngine(testSettings())
	base := engine.Skeleton()

	current := withUnit(base, "斗六", func(r *model.ConsolidatedRow) {
		r.BapYATarget = 3
		r.BapYAActual = 2
		r.SunYAAvg = 10
		r.CLCount = 4
	})
	incoming := withUnit(base, "斗六", func(r *model.ConsolidatedRow) {
		r.BapYATarget = 5
		r.BapYAActual = 1
		r.SunYAAvg = 12
		r.CLCount = 2
		r.SunAllDetails = "incoming"
	})

	merged := engine.MergeRowSets(current, incoming)
	got := findRow(t, merged, "斗六")

	if !floatEquals(got.BapYATarget, 5) {
		t.Errorf("target = %v, want max 5", got.BapYATarget)
	}
	if !floatEquals(got.BapYAActual, 3) {
		t.Errorf("actual = %v, want sum 3", got.BapYAActual)
	}
	if !floatEquals(got.SunYAAvg, 12) {
		t.Errorf("avg = %v, want incoming 12", got.SunYAAvg)
	}
	if !floatEquals(got.CLCount, 4) {
		t.Errorf("cl_count = %v, want max 4", got.CLCount)
	}
	if got.SunAllDetails != "incoming" {
		t.Errorf("details = %q, want incoming", got.SunAllDetails)
	}
	if got.BapYouthRate != "60.0%" {
		t.Errorf("rate = %s, want 60.0%%", got.BapYouthRate)
	}

	sub := findRow(t, merged, "雲東區 小計")
	if !floatEquals(sub.BapYAActual, 3) || !floatEquals(sub.BapYATarget, 5) {
		t.Errorf("subtotal = %v/%v, want 3/5", sub.BapYAActual, sub.BapYATarget)
	}
}

func TestMergeTargetsCommutativeAndMonotonic(t *testing.T) {
	engine := NewEngine(testSettings())
	base := engine.Skeleton()

	a := withUnit(base, "虎尾", func(r *model.ConsolidatedRow) {
		r.SunAllBase = 80
		r.BapUniTarget = 1
	})
	b := withUnit(base, "虎尾", func(r *model.ConsolidatedRow) {
		r.SunAllBase = 60
		r.BapUniTarget = 4
	})

	ab := findRow(t, engine.MergeRowSets(a, b), "虎尾")
	ba := findRow(t, engine.MergeRowSets(b, a), "虎尾")

	for _, f := range model.ConsolidatedFields {
		if !f.Numeric() || !model.IsTargetField(f.Name) {
			continue
		}
		if *f.Ptr(&ab) != *f.Ptr(&ba) {
			t.Errorf("%s not commutative: %v vs %v", f.Name, *f.Ptr(&ab), *f.Ptr(&ba))
		}
	}
	if !floatEquals(ab.SunAllBase, 80) || !floatEquals(ab.BapUniTarget, 4) {
		t.Errorf("merged targets = %v/%v, want 80/4", ab.SunAllBase, ab.BapUniTarget)
	}
}

func TestMergeSkipsLastYear(t *testing.T) {
	engine := NewEngine(testSettings())
	current := engine.Consolidate(nil, nil)
	incoming := engine.Consolidate(nil, nil)
	incoming[len(incoming)-1].BapAllTotal = 50

	merged := engine.MergeRowSets(current, incoming)
	if got := merged[len(merged)-1]; got.BapAllTotal != 0 {
		t.Errorf("last-year row merged: %v", got.BapAllTotal)
	}
}

func TestReconcile(t *testing.T) {
	engine := NewEngine(testSettings())
	base := engine.Skeleton()

	fresh := withUnit(base, "古坑", func(r *model.ConsolidatedRow) {
		r.SunYABase = 5
		r.SunYAAvg = 9
		r.HomeYAAvg = 0
	})
	legacy := withUnit(base, "古坑", func(r *model.ConsolidatedRow) {
		r.SunYABase = 8
		r.SunYAAvg = 3
		r.HomeYAAvg = 4
		r.SunAllDetails = "legacy"
	})

	got := findRow(t, engine.Reconcile(fresh, legacy), "古坑")
	if !floatEquals(got.SunYABase, 8) {
		t.Errorf("base = %v, want max 8", got.SunYABase)
	}
	if !floatEquals(got.SunYAAvg, 9) {
		t.Errorf("avg = %v, want fresh 9", got.SunYAAvg)
	}
	if !floatEquals(got.HomeYAAvg, 4) {
		t.Errorf("home = %v, want legacy fallback 4", got.HomeYAAvg)
	}
	if got.SunAllDetails != "legacy" {
		t.Errorf("details = %q, want legacy", got.SunAllDetails)
	}
	if got.HomeYARate != "50.0%" {
		t.Errorf("home rate = %s, want 50.0%%", got.HomeYARate)
	}
}
