// README: Chunk transformer: vectorized fast path, scalar fallback under rotation.
package transform

// TransformChunk applies m to equal-length lat/lon buffers, writing into the
// out buffers. With zero rotation the two axes are independent add-then-scale
// passes and run vectorized. Any rotation falls back to the scalar applier
// per element; rotated batches are rare enough that a vectorized rotation is
// not worth its correctness risk.
func TransformChunk(m Matrix, lats, lons, outLats, outLons []float64) {
	if m.RotationDeg == 0 {
		BaseShiftScale(lats, outLats, m.LatOffset, m.LatScale)
		BaseShiftScale(lons, outLons, m.LonOffset, m.LonScale)
		return
	}
	n := min(len(lats), len(lons))
	for i := 0; i < n; i++ {
		outLats[i], outLons[i] = Apply(m, lats[i], lons[i])
	}
}
