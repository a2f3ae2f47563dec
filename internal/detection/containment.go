package detection

// FilterContainers drops every shape whose box contains the box of some
// other shape in the list. Each shape is tested against the full input, not
// against the survivors, so a frame around a dropped room outline is dropped
// too.
func FilterContainers(shapes []CandidateShape) []CandidateShape {
	out := make([]CandidateShape, 0, len(shapes))
	for i, s := range shapes {
		hasInner := false
		for j, other := range shapes {
			if i != j && s.BoundingBox.Contains(other.BoundingBox) {
				hasInner = true
				break
			}
		}
		if !hasInner {
			out = append(out, s)
		}
	}
	return out
}
