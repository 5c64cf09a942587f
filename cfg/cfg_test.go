package cfg

import "testing"

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.Grouping != Group4 {
		t.Fatalf("default grouping = %d, want %d", d.Grouping, Group4)
	}
	if !d.WrapScan {
		t.Fatal("default wrapscan should be true")
	}
}

func TestLoadNoRCFile(t *testing.T) {
	p, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Grouping != Group4 || p.PageSize != 512 {
		t.Fatalf("unexpected defaults: %+v", p)
	}
}

func TestSetGrouping(t *testing.T) {
	p := Defaults()
	if err := p.Set("grouping", 8); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if p.Grouping != Group8 {
		t.Fatalf("grouping = %d, want %d", p.Grouping, Group8)
	}
}

func TestSetGroupingRejectsInvalid(t *testing.T) {
	p := Defaults()
	if err := p.Set("grouping", 3); err == nil {
		t.Fatal("expected an error for grouping=3")
	}
}

func TestSetReadOnlyLeavesOtherFieldsAlone(t *testing.T) {
	p := Defaults()
	if err := p.Set("readonly", true); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !p.ReadOnly {
		t.Fatal("readonly should be true")
	}
	if p.Grouping != Group4 {
		t.Fatalf("grouping should be untouched, got %d", p.Grouping)
	}
}
