package assembler

import (
	"testing"

	"armc/ast"
)

func TestRegisterBankAllocateReusesExpiredSlots(t *testing.T) {
	bank := newRegisterBank()

	slot, err := bank.allocate(0, 5)
	if err != nil {
		t.Fatalf("allocate() raised an error: %v", err)
	}

	// Before the value's last use, a fresh allocation must pick a different slot.
	other, err := bank.allocate(1, 2)
	if err != nil {
		t.Fatalf("allocate() raised an error: %v", err)
	}
	if other == slot {
		t.Fatalf("allocate() reused still-live slot %d", slot)
	}

	// After both have expired, a new allocation may reuse the first slot.
	reused, err := bank.allocate(6, 7)
	if err != nil {
		t.Fatalf("allocate() raised an error: %v", err)
	}
	if reused != slot && reused != other {
		t.Errorf("allocate() = %d, want a reused expired slot (%d or %d)", reused, slot, other)
	}
}

func TestRegisterBankRunsOutOfRegisters(t *testing.T) {
	bank := newRegisterBank()
	for i := 0; i < slotCount; i++ {
		if _, err := bank.allocate(0, 1000); err != nil {
			t.Fatalf("allocate() raised an error on slot %d: %v", i, err)
		}
	}
	if _, err := bank.allocate(0, 1000); err == nil {
		t.Errorf("expected an AssemblyError once all slots are live")
	}
}

func TestRegisterName(t *testing.T) {
	cases := []struct {
		slot int
		prim ast.Primitive
		want string
	}{
		{3, ast.Int, "w3"},
		{3, ast.Byte, "w3"},
		{3, ast.Short, "w3"},
		{3, ast.Long, "x3"},
		{3, ast.Float, "s3"},
	}
	for _, c := range cases {
		if got := registerName(c.slot, c.prim); got != c.want {
			t.Errorf("registerName(%d, %v) = %q, want %q", c.slot, c.prim, got, c.want)
		}
	}
}
