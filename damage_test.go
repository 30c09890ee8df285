package vtcore

import "testing"

func TestTakeDamageCoalescesRun(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("Hello")

	regions := term.TakeDamage()

	if len(regions) != 1 {
		t.Fatalf("expected 1 region, got %d: %+v", len(regions), regions)
	}
	if regions[0].Row != 0 || regions[0].StartCol != 0 || regions[0].EndCol != 5 {
		t.Errorf("unexpected region: %+v", regions[0])
	}
}

func TestTakeDamageSplitsGap(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("Hi")
	term.WriteString("\x1b[1;10H")
	term.WriteString("Yo")

	regions := term.TakeDamage()

	if len(regions) != 2 {
		t.Fatalf("expected 2 regions, got %d: %+v", len(regions), regions)
	}
}

func TestTakeDamageClearsDirty(t *testing.T) {
	term := New(WithSize(5, 20))
	term.WriteString("Hello")

	_ = term.TakeDamage()

	if term.HasDirty() {
		t.Error("expected dirty state cleared after TakeDamage")
	}
	if regions := term.TakeDamage(); len(regions) != 0 {
		t.Errorf("expected no regions on second call, got %+v", regions)
	}
}

func TestCoalesceRegionsMultiRow(t *testing.T) {
	positions := []Position{
		{Row: 1, Col: 5},
		{Row: 0, Col: 0},
		{Row: 0, Col: 1},
		{Row: 1, Col: 3},
	}

	regions := coalesceRegions(positions)

	if len(regions) != 3 {
		t.Fatalf("expected 3 regions, got %d: %+v", len(regions), regions)
	}
	if regions[0].Row != 0 || regions[0].StartCol != 0 || regions[0].EndCol != 2 {
		t.Errorf("unexpected row-0 region: %+v", regions[0])
	}
}

func TestCoalesceRegionsEmpty(t *testing.T) {
	if regions := coalesceRegions(nil); regions != nil {
		t.Errorf("expected nil for empty input, got %+v", regions)
	}
}
