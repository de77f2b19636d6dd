package audiocache

// Stats counts how segments were resolved during one build.
type Stats struct {
	Synthesized int
	Reused      int
	Skipped     int
	Missing     int
	Failed      int
	TagFailures int
	Pruned      int
}

// Resolved returns how many segments ended with an artifact.
func (s Stats) Resolved() int {
	return s.Synthesized + s.Reused
}
