package main

// setupTestCPU builds a bare M68KCPU over a fresh GuestMemory for unit
// tests that exercise individual instructions directly via
// FetchAndDecodeInstruction, with no syscall bridge or loaded ELF image
// attached.
func setupTestCPU() *M68KCPU {
	mem := NewGuestMemory()
	mem.InitBrk(0x2000)
	cpu := NewM68KCPU(mem)
	cpu.SR = 0
	// Code starts above the 0x1000/0x2000 operands the instruction tests
	// write, so writing the opcodes does not overwrite them.
	cpu.PC = 0x00010000
	cpu.AddrRegs[7] = M68K_STACK_START
	cpu.running.Store(true)
	return cpu
}
