package ipalloc

import "testing"

func TestClassifyASRegion(t *testing.T) {
	cases := map[int]ASRegion{
		0:    RegionNA,
		199:  RegionNA,
		200:  RegionEU,
		500:  RegionAsia,
		800:  RegionSA,
		1000: RegionAfrica,
		1100: RegionOceania,
		5000: RegionUnknown,
	}
	for as, want := range cases {
		if got := ClassifyASRegion(as); got != want {
			t.Errorf("ClassifyASRegion(%d) = %v, want %v", as, got, want)
		}
	}
}

func TestSubnetBase(t *testing.T) {
	base, err := SubnetBase("300")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if base != "10.1.44" {
		t.Fatalf("expected 10.1.44, got %q", base)
	}
	if _, err := SubnetBase("not-a-number"); err == nil {
		t.Fatalf("expected an error for a non-numeric AS")
	}
}

func TestAsSubnetManagerAssignSequentialAndExhaustion(t *testing.T) {
	m := NewAsSubnetManager()
	first, err := m.Assign("64512")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := m.Assign("64512")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == second {
		t.Fatalf("expected sequential hosts, got %q twice", first)
	}

	// Drain the counter to the exhaustion boundary.
	for i := 0; i < 300; i++ {
		if _, err := m.Assign("9"); err != nil {
			break
		}
	}
	if _, err := m.Assign("9"); err == nil {
		t.Fatalf("expected SubnetExhaustedError once the /24 is drained")
	}
}
