// Package assembler lowers a translated Program into ARM64 (Apple Darwin)
// assembly text: a data section for globals, followed by a single `main`
// entry point whose body is produced by walking the Program's IR and
// driving a one-pass linear-scan register allocator.
package assembler

import (
	"fmt"
	"math"
	"strings"

	"armc/ast"
	"armc/ir"
	"armc/translator"
)

type assembler struct {
	prog *translator.Program

	bank       *registerBank
	slotOfAddr map[int]int
	lastUse    []int

	localOffsets map[string]int
	currentMin   int

	out *strings.Builder
}

// Assemble renders prog's data and text sections as a single assembly
// source blob.
func Assemble(prog *translator.Program) (string, error) {
	as := &assembler{
		prog:         prog,
		bank:         newRegisterBank(),
		slotOfAddr:   make(map[int]int),
		localOffsets: make(map[string]int),
	}
	as.computeLastUse()
	frame := prog.StackSize()
	as.currentMin = frame

	var out strings.Builder

	section, err := dataSection(prog)
	if err != nil {
		return "", err
	}
	if section != "" {
		out.WriteString(section)
		out.WriteString("\n")
	}

	out.WriteString(".section __TEXT,__text\n.global main\nmain:\n")

	var body strings.Builder
	as.out = &body
	as.emit("  sub sp, sp, #%d\n", frame)

	for i, instr := range prog.Instructions {
		if err := as.emitInstruction(i, instr); err != nil {
			return "", err
		}
	}

	out.WriteString(insertFrameTeardown(body.String(), frame))
	return out.String(), nil
}

func insertFrameTeardown(body string, frame int) string {
	teardown := fmt.Sprintf("  add sp, sp, #%d", frame)
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) > 0 && strings.HasPrefix(strings.TrimSpace(lines[len(lines)-1]), "ret") {
		last := lines[len(lines)-1]
		lines = append(lines[:len(lines)-1], teardown, last)
	} else {
		lines = append(lines, teardown)
	}
	return strings.Join(lines, "\n") + "\n"
}

func (as *assembler) emit(format string, args ...any) {
	fmt.Fprintf(as.out, format, args...)
}

// computeLastUse records, for every instruction address, the furthest
// program point at which its result is still read as an operand,
// defaulting to the address itself when never read again.
func (as *assembler) computeLastUse() {
	n := len(as.prog.Instructions)
	as.lastUse = make([]int, n)
	for i := range as.lastUse {
		as.lastUse[i] = i
	}
	for j, instr := range as.prog.Instructions {
		for _, operand := range [2]ir.Operand{instr.Operand1, instr.Operand2} {
			if addr, ok := operand.(ir.Address); ok && j > as.lastUse[addr.Index] {
				as.lastUse[addr.Index] = j
			}
		}
	}
}

func (as *assembler) allocateResult(addr int) (int, error) {
	slot, err := as.bank.allocate(addr, as.lastUse[addr])
	if err != nil {
		return 0, err
	}
	as.slotOfAddr[addr] = slot
	return slot, nil
}

func (as *assembler) registerForAddress(addrIdx int) (string, error) {
	slot, ok := as.slotOfAddr[addrIdx]
	if !ok {
		return "", assemblyErrorf("Unknown result address %d!", addrIdx)
	}
	return registerName(slot, as.prog.DatatypeAt(addrIdx)), nil
}

// valueText resolves a read-only operand into its textual form.
func (as *assembler) valueText(op ir.Operand) (string, error) {
	switch v := op.(type) {
	case ir.Address:
		return as.registerForAddress(v.Index)
	case ir.DataOperand:
		return immediateText(v.Data), nil
	default:
		return "", assemblyErrorf("Operand %#v cannot be read as a value!", op)
	}
}

// destText resolves a Temp-marked write operand into a freshly allocated
// register, persisting that allocation for this instruction's address.
func (as *assembler) destText(op ir.Operand, addrIdx int) (string, error) {
	switch op.(type) {
	case ir.Temp:
		slot, err := as.allocateResult(addrIdx)
		if err != nil {
			return "", err
		}
		return registerName(slot, as.prog.DatatypeAt(addrIdx)), nil
	case ir.Address:
		return as.valueText(op)
	default:
		return "", assemblyErrorf("Operand %#v is not a valid destination!", op)
	}
}

// implicitDest allocates the fresh result register for opcodes whose
// destination is not carried by a Temp-marked operand (all arithmetic,
// Neg, CSet, SCvtF, FCvtZS).
func (as *assembler) implicitDest(addrIdx int, prim ast.Primitive) (string, error) {
	slot, err := as.allocateResult(addrIdx)
	if err != nil {
		return "", err
	}
	return registerName(slot, prim), nil
}

func (as *assembler) localText(key string, index int) (string, error) {
	compound, ok := as.prog.Locals[key]
	if !ok {
		return "", assemblyErrorf("Unknown local '%s'!", key)
	}
	offset, ok := as.localOffsets[key]
	if !ok {
		offset = as.currentMin - compound.Size()
		as.currentMin = offset
		as.localOffsets[key] = offset
	}
	total := offset + index*compound.Primitive.Size()
	return fmt.Sprintf("[sp, #%d]", total), nil
}

func (as *assembler) globalNameAndOffset(key string, index int) (string, int, error) {
	global, ok := as.prog.Globals[key]
	if !ok {
		return "", 0, assemblyErrorf("Unknown global '%s'!", key)
	}
	name := strings.TrimSuffix(key, "_0")
	return name, index * global.Compound.Primitive.Size(), nil
}

func arithMnemonic(base string, prim ast.Primitive) string {
	if prim == ast.Float {
		return "f" + base
	}
	return base
}

func storeMnemonic(prim ast.Primitive) string {
	switch prim {
	case ast.Byte:
		return "strb"
	case ast.Short:
		return "strh"
	default:
		return "str"
	}
}

func loadMnemonic(prim ast.Primitive) string {
	switch prim {
	case ast.Byte:
		return "ldrb"
	case ast.Short:
		return "ldrsh"
	default:
		return "ldr"
	}
}

func (as *assembler) emitInstruction(i int, instr ir.Instruction) error {
	prim := as.prog.DatatypeAt(i)

	switch instr.Op {
	case ir.Mov:
		return as.emitMov(i, instr, prim)

	case ir.Add, ir.Sub, ir.Mul:
		a, err := as.valueText(instr.Operand1)
		if err != nil {
			return err
		}
		b, err := as.valueText(instr.Operand2)
		if err != nil {
			return err
		}
		dest, err := as.implicitDest(i, prim)
		if err != nil {
			return err
		}
		base := map[ir.Operation]string{ir.Add: "add", ir.Sub: "sub", ir.Mul: "mul"}[instr.Op]
		as.emit("  %s %s, %s, %s\n", arithMnemonic(base, prim), dest, a, b)
		return nil

	case ir.Div:
		a, err := as.valueText(instr.Operand1)
		if err != nil {
			return err
		}
		b, err := as.valueText(instr.Operand2)
		if err != nil {
			return err
		}
		dest, err := as.implicitDest(i, prim)
		if err != nil {
			return err
		}
		mnemonic := "sdiv"
		if prim == ast.Float {
			mnemonic = "fdiv"
		}
		as.emit("  %s %s, %s, %s\n", mnemonic, dest, a, b)
		return nil

	case ir.And, ir.Orr, ir.Eor, ir.Lsl, ir.Asr:
		a, err := as.valueText(instr.Operand1)
		if err != nil {
			return err
		}
		b, err := as.valueText(instr.Operand2)
		if err != nil {
			return err
		}
		dest, err := as.implicitDest(i, prim)
		if err != nil {
			return err
		}
		as.emit("  %s %s, %s, %s\n", strings.ToLower(instr.Op.String()), dest, a, b)
		return nil

	case ir.Neg:
		a, err := as.valueText(instr.Operand1)
		if err != nil {
			return err
		}
		dest, err := as.implicitDest(i, prim)
		if err != nil {
			return err
		}
		as.emit("  neg %s, %s\n", dest, a)
		return nil

	case ir.Cmp:
		a, err := as.valueText(instr.Operand1)
		if err != nil {
			return err
		}
		b, err := as.valueText(instr.Operand2)
		if err != nil {
			return err
		}
		as.emit("  cmp %s, %s\n", a, b)
		return nil

	case ir.CSet:
		cond, ok := instr.Operand1.(ir.Asm)
		if !ok {
			return assemblyErrorf("CSet expects a condition-code operand!")
		}
		dest, err := as.implicitDest(i, ast.Int)
		if err != nil {
			return err
		}
		as.emit("  cset %s, %s\n", dest, cond.Text)
		return nil

	case ir.Ret:
		src, err := as.valueText(instr.Operand1)
		if err != nil {
			return err
		}
		if src == "w0" || src == "x0" || src == "s0" {
			as.emit("  ret\n")
			return nil
		}
		as.emit("  mov w0, %s\n", src)
		as.emit("  ret\n")
		return nil

	case ir.SCvtF:
		a, err := as.valueText(instr.Operand1)
		if err != nil {
			return err
		}
		dest, err := as.implicitDest(i, ast.Float)
		if err != nil {
			return err
		}
		as.emit("  scvtf %s, %s\n", dest, a)
		return nil

	case ir.FCvtZS:
		a, err := as.valueText(instr.Operand1)
		if err != nil {
			return err
		}
		dest, err := as.implicitDest(i, ast.Int)
		if err != nil {
			return err
		}
		as.emit("  fcvtzs %s, %s\n", dest, a)
		return nil

	case ir.Str:
		value, err := as.valueText(instr.Operand1)
		if err != nil {
			return err
		}
		ident, ok := instr.Operand2.(ir.Identifier)
		if !ok {
			return assemblyErrorf("Str expects an identifier operand!")
		}
		mem, err := as.localText(ident.Name, ident.Index)
		if err != nil {
			return err
		}
		as.emit("  %s %s, %s\n", storeMnemonic(prim), value, mem)
		return nil

	case ir.Ldr:
		ident, ok := instr.Operand2.(ir.Identifier)
		if !ok {
			return assemblyErrorf("Ldr expects an identifier operand!")
		}
		mem, err := as.localText(ident.Name, ident.Index)
		if err != nil {
			return err
		}
		dest, err := as.destText(instr.Operand1, i)
		if err != nil {
			return err
		}
		as.emit("  %s %s, %s\n", loadMnemonic(prim), dest, mem)
		return nil

	case ir.Ldg:
		ident, ok := instr.Operand2.(ir.Identifier)
		if !ok {
			return assemblyErrorf("Ldg expects an identifier operand!")
		}
		name, offset, err := as.globalNameAndOffset(ident.Name, ident.Index)
		if err != nil {
			return err
		}
		dest, err := as.destText(instr.Operand1, i)
		if err != nil {
			return err
		}
		tSlot, err := as.bank.allocateScratch(i)
		if err != nil {
			return err
		}
		t := registerName(tSlot, ast.Long)
		as.emit("  adrp %s, %s@GOTPAGE\n", t, name)
		as.emit("  ldr %s, [%s, %s@GOTPAGEOFF]\n", t, t, name)
		as.emit("  ldr %s, [%s, #%d]\n", dest, t, offset)
		return nil

	case ir.Stg:
		ident, ok := instr.Operand2.(ir.Identifier)
		if !ok {
			return assemblyErrorf("Stg expects an identifier operand!")
		}
		name, offset, err := as.globalNameAndOffset(ident.Name, ident.Index)
		if err != nil {
			return err
		}
		value, err := as.valueText(instr.Operand1)
		if err != nil {
			return err
		}
		tSlot, err := as.bank.allocateScratch(i)
		if err != nil {
			return err
		}
		t := registerName(tSlot, ast.Long)
		as.emit("  adrp %s, %s@PAGE\n", t, name)
		as.emit("  str %s, [%s, #%d]\n", value, t, offset)
		return nil

	case ir.Lbl:
		label, ok := instr.Operand1.(ir.Label)
		if !ok {
			return assemblyErrorf("Lbl expects a label operand!")
		}
		as.emit("%s:\n", label.Name)
		return nil

	case ir.B:
		label, ok := instr.Operand1.(ir.Label)
		if !ok {
			return assemblyErrorf("B expects a label operand!")
		}
		as.emit("  b %s\n", label.Name)
		return nil

	case ir.BEq:
		label, ok := instr.Operand1.(ir.Label)
		if !ok {
			return assemblyErrorf("BEq expects a label operand!")
		}
		as.emit("  b.eq %s\n", label.Name)
		return nil

	default:
		return assemblyErrorf("Unknown opcode %s!", instr.Op)
	}
}

// emitMov handles the Mov opcode's two forms (integer, float) and the
// immediate-materialization special cases §4.3 describes: a literal-pool
// `ldr dest, =n` for large integers, and a scratch-register `mov`+`fmov`
// pair for floats whose bit pattern has no direct VFP encoding.
func (as *assembler) emitMov(i int, instr ir.Instruction, prim ast.Primitive) error {
	dest, err := as.destText(instr.Operand1, i)
	if err != nil {
		return err
	}

	data, ok := instr.Operand2.(ir.DataOperand)
	if !ok {
		src, err := as.valueText(instr.Operand2)
		if err != nil {
			return err
		}
		mnemonic := "mov"
		if prim == ast.Float {
			mnemonic = "fmov"
		}
		as.emit("  %s %s, %s\n", mnemonic, dest, src)
		return nil
	}

	if prim != ast.Float {
		text := immediateText(data.Data)
		if strings.HasPrefix(text, "=") {
			as.emit("  ldr %s, %s\n", dest, text)
		} else {
			as.emit("  mov %s, %s\n", dest, text)
		}
		return nil
	}

	fv, _ := data.Data.(ast.FloatData)
	v := float32(fv)
	if representableFloat(v) {
		as.emit("  fmov %s, %s\n", dest, immediateText(data.Data))
		return nil
	}

	tSlot, err := as.bank.allocateScratch(i)
	if err != nil {
		return err
	}
	t := registerName(tSlot, ast.Int)
	bits := math.Float32bits(v)
	as.emit("  mov %s, #%d\n", t, bits)
	as.emit("  fmov %s, %s\n", dest, t)
	return nil
}
