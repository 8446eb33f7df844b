package keycode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModifierBits(t *testing.T) {
	tests := []struct {
		code KeyCode
		bit  byte
	}{
		{LCtrl, 0x01},
		{LShift, 0x02},
		{LAlt, 0x04},
		{LGui, 0x08},
		{RCtrl, 0x10},
		{RShift, 0x20},
		{RAlt, 0x40},
		{RGui, 0x80},
	}
	for _, tt := range tests {
		assert.True(t, tt.code.IsModifier(), tt.code.String())
		assert.Equal(t, tt.bit, tt.code.ModifierBit(), tt.code.String())
	}
	assert.False(t, A.IsModifier())
	assert.False(t, No.IsModifier())
	assert.False(t, Application.IsModifier())
}

func TestParseAndString(t *testing.T) {
	for _, name := range []string{"A", "Z", "Kb1", "Kb0", "Enter", "Space", "F12", "LCtrl", "RGui", "Application"} {
		code, err := Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, name, code.String())
	}

	_, err := Parse("NotAKey")
	assert.Error(t, err)
}

func TestReportDedupAndOrder(t *testing.T) {
	r := NewReport(8)
	r.Add(B)
	r.Add(A)
	r.Add(B)
	r.Add(No)
	assert.Equal(t, []KeyCode{B, A}, r.Codes())

	r.Reset()
	assert.Empty(t, r.Codes())
}

func TestReportEqualAndCopy(t *testing.T) {
	a := NewReport(8)
	b := NewReport(8)
	assert.True(t, a.Equal(b))

	a.Add(A)
	a.Add(LShift)
	assert.False(t, a.Equal(b))

	b.CopyFrom(a)
	assert.True(t, a.Equal(b))

	// Same codes, different order: not equal.
	c := NewReport(8)
	c.Add(LShift)
	c.Add(A)
	assert.False(t, a.Equal(c))
}

func TestBootBytes(t *testing.T) {
	r := NewReport(8)
	r.Add(LShift)
	r.Add(A)
	r.Add(RAlt)
	r.Add(B)
	got := r.BootBytes()
	assert.Equal(t, [8]byte{0x42, 0, byte(A), byte(B), 0, 0, 0, 0}, got)
}

func TestBootBytesRollOver(t *testing.T) {
	r := NewReport(8)
	r.Add(LCtrl)
	for _, k := range []KeyCode{A, B, C, D, E, F, G} {
		r.Add(k)
	}
	got := r.BootBytes()
	want := [8]byte{0x01, 0}
	for i := 2; i < 8; i++ {
		want[i] = byte(ErrorRollOver)
	}
	assert.Equal(t, want, got)
}
