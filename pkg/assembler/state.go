package assembler

// State is the lifecycle state of one assistant turn.
type State int32

const (
	// AwaitingFirstDelta is the state before any content has arrived.
	AwaitingFirstDelta State = iota

	// Streaming is entered on the first delta and held while deltas arrive.
	Streaming

	// Finalizing extracts references and strips tokens once the stream ends.
	Finalizing

	// Done holds a finalized turn.
	Done

	// Failed is entered on any transport failure before Done.
	Failed
)

func (s State) String() string {
	switch s {
	case AwaitingFirstDelta:
		return "awaiting_first_delta"
	case Streaming:
		return "streaming"
	case Finalizing:
		return "finalizing"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}
