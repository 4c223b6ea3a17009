package xpt

import (
	"math"
	"testing"
)

func TestIEEEToIBM_RoundTripsExactValues(t *testing.T) {
	cases := []float64{0, 1, -1, 16, 3, -3, 0.5, 100.25, 1e10, -1e-6, 2024}
	for _, f := range cases {
		ibm := IEEEToIBM(f)
		got := IBMToIEEE(ibm)
		if got != f {
			t.Errorf("IEEEToIBM(%v) round-trip = %v, want %v", f, got, f)
		}
	}
}

func TestIEEEToIBM_Zero(t *testing.T) {
	if got := IEEEToIBM(0); got != ([8]byte{}) {
		t.Errorf("IEEEToIBM(0) = %v, want all zero", got)
	}
}

func TestIEEEToIBM_NonFiniteIsStandardMissing(t *testing.T) {
	for _, f := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		b := IEEEToIBM(f)
		code, ok := DecodeMissing(b)
		if !ok || code != StdMissing {
			t.Errorf("IEEEToIBM(%v) = %v, want standard missing", f, b)
		}
	}
}

func TestIEEEToIBM_SubnormalTruncatesToZero(t *testing.T) {
	subnormal := math.Float64frombits(1) // smallest positive subnormal
	if got := IEEEToIBM(subnormal); got != ([8]byte{}) {
		t.Errorf("IEEEToIBM(subnormal) = %v, want all zero", got)
	}
}

func TestEncodeDecodeMissing(t *testing.T) {
	for _, code := range []byte{StdMissing, 'A', 'Z', '_'} {
		b := EncodeMissing(code)
		got, ok := DecodeMissing(b)
		if !ok || got != code {
			t.Errorf("DecodeMissing(EncodeMissing(%q)) = %q, %v", code, got, ok)
		}
	}
}

func TestDecodeMissing_RejectsNonMissingField(t *testing.T) {
	b := IEEEToIBM(1.5)
	if _, ok := DecodeMissing(b); ok {
		t.Errorf("DecodeMissing should reject a real numeric encoding")
	}
}
