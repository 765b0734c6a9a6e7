package abm

import (
	"math"
	"testing"
)

func TestIsFinite(t *testing.T) {
	if !isFinite(1) || isFinite(math.Inf(1)) || isFinite(math.NaN()) {
		t.Fatal("isFinite failed")
	}
}

func TestPerturbs(t *testing.T) {
	if perturbs(NoPerturbance) || perturbs(0) || perturbs(math.NaN()) || !perturbs(4) {
		t.Fatal("perturbs failed")
	}
}

func TestIMax(t *testing.T) {
	if imax(3, 5) != 5 || imax(5, 3) != 5 {
		t.Fatal("imax failed")
	}
}
