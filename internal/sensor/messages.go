package sensor

// SampleMsg carries one decoded reading from a source.
type SampleMsg struct {
	Sample Sample
}

// ConnectionMsg reports a source connecting or dropping. Err is set when the
// source stopped because of a failure.
type ConnectionMsg struct {
	Source    string
	Connected bool
	Err       error
}
