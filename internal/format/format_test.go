package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixed(t *testing.T) {
	t.Run("pads to precision", func(t *testing.T) {
		assert.Equal(t, "50.000", F3(50))
		assert.Equal(t, "12.5", F1(12.5))
		assert.Equal(t, "3110.5000", F4(3110.5))
		assert.Equal(t, "0.000001", F6(1e-6))
	})

	t.Run("rounds to precision", func(t *testing.T) {
		assert.Equal(t, "0.032149", F6(100.0*1.0/3110.5))
		assert.Equal(t, "0.667", F3(2.0/3.0))
	})

	t.Run("drops sign of negative zero", func(t *testing.T) {
		assert.Equal(t, "0.000", F3(math0()))
		assert.Equal(t, "0.000", F3(-0.0001))
	})
}

func math0() float64 {
	var z float64
	return -z
}

func TestComplex(t *testing.T) {
	assert.Equal(t, "0.010000+0.020000j", Complex(0.01, 0.02))
	assert.Equal(t, "0.010000-0.020000j", Complex(0.01, -0.02))
	assert.Equal(t, "0.000000+0.000000j", Complex(0, 0))
}

func TestSafeName(t *testing.T) {
	assert.Equal(t, "T1_xfmr_50kVA", SafeName("T1 xfmr.50kVA"))
	assert.Equal(t, "a_b_c_d", SafeName("a/b[c]d"))
	assert.Equal(t, "plain", SafeName("plain"))
}
