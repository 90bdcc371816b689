package vm

import (
	"testing"

	"github.com/holiman/uint256"
)

func TestGasMeterSpend(t *testing.T) {
	g := NewGasMeter(100)
	if err := g.Spend(40); err != nil {
		t.Fatalf("Spend(40): %v", err)
	}
	if g.Remaining() != 60 {
		t.Errorf("Remaining() = %d, want 60", g.Remaining())
	}
	if err := g.Spend(1000); err != ErrOutOfGas {
		t.Fatalf("Spend(1000) = %v, want ErrOutOfGas", err)
	}
	if g.Remaining() != 0 {
		t.Errorf("Remaining() after a failed Spend = %d, want 0", g.Remaining())
	}
}

func TestGasMeterRefund(t *testing.T) {
	g := NewGasMeter(100)
	g.AddRefund(50)
	g.AddRefund(25)
	if g.Refund() != 75 {
		t.Errorf("Refund() = %d, want 75", g.Refund())
	}
	g.SubRefund(30)
	if g.Refund() != 45 {
		t.Errorf("Refund() after SubRefund(30) = %d, want 45", g.Refund())
	}
	g.SubRefund(1000)
	if g.Refund() != 0 {
		t.Errorf("SubRefund beyond the accumulated refund should floor at 0, got %d", g.Refund())
	}
}

func TestGasMeterAddGas(t *testing.T) {
	g := NewGasMeter(10)
	g.AddGas(2300)
	if g.Remaining() != 2310 {
		t.Errorf("Remaining() after AddGas = %d, want 2310", g.Remaining())
	}
}

func TestSafeAddOverflow(t *testing.T) {
	if got := safeAdd(^uint64(0), 1); got != ^uint64(0) {
		t.Errorf("safeAdd overflow = %d, want saturated MaxUint64", got)
	}
}

func TestSafeMulOverflow(t *testing.T) {
	if got := safeMul(^uint64(0), 2); got != ^uint64(0) {
		t.Errorf("safeMul overflow = %d, want saturated MaxUint64", got)
	}
	if got := safeMul(0, ^uint64(0)); got != 0 {
		t.Errorf("safeMul(0, x) = %d, want 0", got)
	}
}

func TestExpByteLen(t *testing.T) {
	cases := []struct {
		e    uint64
		want int
	}{
		{0, 0},
		{1, 1},
		{255, 1},
		{256, 2},
		{1 << 16, 3},
	}
	for _, c := range cases {
		if got := expByteLen(uint256.NewInt(c.e)); got != c.want {
			t.Errorf("expByteLen(%d) = %d, want %d", c.e, got, c.want)
		}
	}
}
