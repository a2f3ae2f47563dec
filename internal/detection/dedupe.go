package detection

// DefaultIoUThreshold is the overlap above which two boxes are duplicates.
const DefaultIoUThreshold = 0.9

// Deduplicate walks shapes in order and keeps each one whose box overlaps no
// already-kept box with IoU above threshold. Earlier shapes win, and the
// survivors keep their relative order.
func Deduplicate(shapes []CandidateShape, threshold float64) []CandidateShape {
	kept := make([]CandidateShape, 0, len(shapes))
	for _, s := range shapes {
		duplicate := false
		for _, k := range kept {
			if IoU(s.BoundingBox, k.BoundingBox) > threshold {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, s)
		}
	}
	return kept
}
