package transform

//go:generate hwygen -input $GOFILE -output . -targets avx2,fallback

import (
	"github.com/ajroetker/go-highway/hwy"
)

// BaseShiftScale computes out = (in + shift) * scale for a contiguous buffer.
// One pass per axis keeps the layout SoA so the loads stay contiguous.
//
// The operation order (add, then multiply, no FMA) matches the scalar applier
// exactly; both paths must stay bit-for-bit identical for rotation-free
// matrices because cached results may come from either.
func BaseShiftScale[T hwy.Floats](in, out []T, shift, scale T) {
	size := min(len(in), len(out))
	vShift := hwy.Set(shift)
	vScale := hwy.Set(scale)

	hwy.ProcessWithTail[T](size,
		func(offset int) {
			v := hwy.Load(in[offset:])
			v = hwy.Mul(hwy.Add(v, vShift), vScale)
			hwy.Store(v, out[offset:])
		},
		func(offset, count int) {
			mask := hwy.TailMask[T](count)
			v := hwy.MaskLoad(mask, in[offset:])
			v = hwy.Mul(hwy.Add(v, vShift), vScale)
			hwy.MaskStore(mask, v, out[offset:])
		},
	)
}
