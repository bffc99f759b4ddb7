package orders

import (
	"reflect"
	"testing"
)

func TestSortForLocking(t *testing.T) {
	in := []PlaceItem{
		{ProductID: "p2", Size: "M", Qty: 1},
		{ProductID: "p1", Size: "S", Qty: 2},
		{ProductID: "p1", Size: "L", Qty: 1},
	}
	want := []PlaceItem{
		{ProductID: "p1", Size: "L", Qty: 1},
		{ProductID: "p1", Size: "S", Qty: 2},
		{ProductID: "p2", Size: "M", Qty: 1},
	}
	got := sortForLocking(in)
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if in[0].ProductID != "p2" {
		t.Error("input slice was mutated")
	}
}

// Two carts listing the same items in opposite order must lock rows in the
// same sequence, or concurrent placements can deadlock each other.
func TestSortForLockingIsOrderIndependent(t *testing.T) {
	a := []PlaceItem{
		{ProductID: "p1", Size: "M", Qty: 1},
		{ProductID: "p2", Size: "M", Qty: 1},
		{ProductID: "p3", Size: "S", Qty: 1},
	}
	b := []PlaceItem{a[2], a[1], a[0]}

	if !reflect.DeepEqual(sortForLocking(a), sortForLocking(b)) {
		t.Error("reversed carts produced different lock orders")
	}
}
