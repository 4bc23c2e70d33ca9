package portspec

import (
	"sort"
	"testing"
)

func TestRangeStrategy_Serial(t *testing.T) {
	s, err := PickRange(RangeSpec{Lo: 10, Hi: 15}, Serial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []uint16{10, 11, 12, 13, 14, 15}
	got := s.Ports()
	if !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Serial is idempotent across calls.
	again := s.Ports()
	if !equal(again, want) {
		t.Errorf("second call got %v, want %v", again, want)
	}
}

func TestRangeStrategy_Random_SameMultiset(t *testing.T) {
	s, err := PickRange(RangeSpec{Lo: 1, Hi: 50}, Random)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	a := s.Ports()
	b := s.Ports()

	if len(a) != 50 || len(b) != 50 {
		t.Fatalf("got lengths %d, %d, want 50", len(a), len(b))
	}

	sort.Slice(a, func(i, j int) bool { return a[i] < a[j] })
	sort.Slice(b, func(i, j int) bool { return b[i] < b[j] })
	if !equal(a, b) {
		t.Errorf("shuffled sequences are not the same multiset: %v vs %v", a, b)
	}
}

func TestListStrategy_Serial_PreservesOrder(t *testing.T) {
	s, err := PickList(ListSpec{Ports: []uint16{443, 22, 8080, 80}}, Serial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []uint16{443, 22, 8080, 80}
	if got := s.Ports(); !equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestListStrategy_RejectsDuplicate(t *testing.T) {
	_, err := PickList(ListSpec{Ports: []uint16{80, 80}}, Serial)
	if err == nil {
		t.Fatal("expected error for duplicate port")
	}
}

func TestPickRange_RejectsInvalid(t *testing.T) {
	cases := []RangeSpec{
		{Lo: 0, Hi: 10},
		{Lo: 100, Hi: 10},
	}
	for _, c := range cases {
		if _, err := PickRange(c, Serial); err == nil {
			t.Errorf("expected error for range %+v", c)
		}
	}
}

func TestRangeStrategy_Length(t *testing.T) {
	s, err := PickRange(RangeSpec{Lo: 1, Hi: 65535}, Serial)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := len(s.Ports()); got != 65535 {
		t.Errorf("length = %d, want 65535", got)
	}
}

func equal(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
