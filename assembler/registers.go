package assembler

import (
	"strconv"

	"armc/ast"
)

// slotCount is the number of general-purpose slots in the register bank
// (§4.3 "Register bank").
const slotCount = 29

// registerBank is the one-pass linear-scan allocator: slot i is free for a
// new allocation at IR address a iff its recorded last-use has already
// passed (registers[i] <= a). This holds because IR addresses are
// monotonically increasing during translation.
type registerBank struct {
	lastUse [slotCount]int
}

func newRegisterBank() *registerBank {
	bank := &registerBank{}
	for i := range bank.lastUse {
		bank.lastUse[i] = -1
	}
	return bank
}

// allocate reserves a slot for a persisting result at address addr, whose
// value is read for the last time at untilAddr; the slot is unavailable
// again until that address has passed.
func (b *registerBank) allocate(addr, untilAddr int) (int, error) {
	for i := range b.lastUse {
		if b.lastUse[i] <= addr {
			b.lastUse[i] = untilAddr
			return i, nil
		}
	}
	return 0, assemblyErrorf("Ran out of registers!")
}

// allocateScratch reserves a slot for a one-off intermediate value used
// inside a multi-step expansion (Ldg/Stg's GOT/PAGE register, a
// float-immediate's integer carrier): it picks a free slot but leaves the
// bank unchanged, since the value is dead the instant the expansion ends.
func (b *registerBank) allocateScratch(addr int) (int, error) {
	for i := range b.lastUse {
		if b.lastUse[i] <= addr {
			return i, nil
		}
	}
	return 0, assemblyErrorf("Ran out of registers!")
}

// widthPrefix names a register's width class from its primitive: Byte,
// Short, and Int all share "w"; Long uses "x"; Float uses "s".
func widthPrefix(p ast.Primitive) string {
	switch p {
	case ast.Long:
		return "x"
	case ast.Float:
		return "s"
	default:
		return "w"
	}
}

func registerName(slot int, p ast.Primitive) string {
	return widthPrefix(p) + strconv.Itoa(slot)
}
