package emulator_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rv32mcu/emulator/emulator"
	"github.com/rv32mcu/emulator/mcu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func word(w uint32) []byte {
	return []byte{byte(w), byte(w >> 8), byte(w >> 16), byte(w >> 24)}
}

func concat(chunks ...[]byte) []byte {
	var out []byte
	for _, c := range chunks {
		out = append(out, c...)
	}
	return out
}

func newTestMCU(t *testing.T, image []byte) *mcu.MCU {
	t.Helper()
	m := mcu.NewMCU(nil)
	require.NoError(t, m.LoadFlash(image))
	return m
}

func TestRunStopsOnHalt(t *testing.T) {
	image := concat(
		word(mcu.Encode(mcu.Instruction{Mnemonic: mcu.ADDI, Rd: 10, Rs1: 0, Imm: 255})),
		word(mcu.Encode(mcu.Instruction{Mnemonic: mcu.ECALL})),
	)
	m := newTestMCU(t, image)

	e := emulator.New(m, 0, 0, t.TempDir())
	require.NoError(t, e.Run())
	assert.Equal(t, uint32(4), m.CPU.PC)
}

func TestRunRespectsMaxCycles(t *testing.T) {
	// None of these five ADDIs ever reach HALT; MaxCycles must cut the
	// run short at exactly three one-cycle ticks regardless.
	image := concat(
		word(mcu.Encode(mcu.Instruction{Mnemonic: mcu.ADDI, Rd: 1, Rs1: 0, Imm: 1})),
		word(mcu.Encode(mcu.Instruction{Mnemonic: mcu.ADDI, Rd: 1, Rs1: 1, Imm: 1})),
		word(mcu.Encode(mcu.Instruction{Mnemonic: mcu.ADDI, Rd: 1, Rs1: 1, Imm: 1})),
		word(mcu.Encode(mcu.Instruction{Mnemonic: mcu.ADDI, Rd: 1, Rs1: 1, Imm: 1})),
		word(mcu.Encode(mcu.Instruction{Mnemonic: mcu.ADDI, Rd: 1, Rs1: 1, Imm: 1})),
	)
	m := newTestMCU(t, image)

	e := emulator.New(m, 0, 3, t.TempDir())
	require.NoError(t, e.Run())
	assert.Equal(t, uint32(12), m.CPU.PC)
}

func TestRunWritesDumpAndClearsX10(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dumps")
	image := concat(
		word(mcu.Encode(mcu.Instruction{Mnemonic: mcu.ADDI, Rd: 10, Rs1: 0, Imm: 254})),
		word(mcu.Encode(mcu.Instruction{Mnemonic: mcu.ADDI, Rd: 11, Rs1: 0, Imm: 0})),
		word(mcu.Encode(mcu.Instruction{Mnemonic: mcu.ADDI, Rd: 12, Rs1: 0, Imm: 3})),
		word(mcu.Encode(mcu.Instruction{Mnemonic: mcu.ECALL})),
		word(mcu.Encode(mcu.Instruction{Mnemonic: mcu.ADDI, Rd: 10, Rs1: 0, Imm: 255})),
		word(mcu.Encode(mcu.Instruction{Mnemonic: mcu.ECALL})),
	)
	m := newTestMCU(t, image)

	// MaxCycles of 4 ends the run right after the dump tick (three ADDIs,
	// then the dump), before x10 is reloaded with the halt sentinel.
	e := emulator.New(m, 0, 4, dir)
	require.NoError(t, e.Run())
	assert.Equal(t, uint32(0), m.CPU.GetX(10), "x10 is cleared to acknowledge the dump")
	assert.Equal(t, uint32(16), m.CPU.PC)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "3.dump", entries[0].Name())

	got, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, 4, len(got))
}
