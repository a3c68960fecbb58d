package checkout

// Stage is the state of one checkout attempt. An attempt starts at the
// prompt, moves through processing while payment and persistence run, and
// ends in success, failure or cancellation.
type Stage string

const (
	StagePrompt     Stage = "PROMPT"
	StageProcessing Stage = "PROCESSING"
	StageSuccess    Stage = "SUCCESS"
	StageFailed     Stage = "FAILED"
	StageCancelled  Stage = "CANCELLED"
)

// IsTerminal reports whether the attempt can no longer move.
func (s Stage) IsTerminal() bool {
	return s == StageSuccess || s == StageCancelled
}

// CanTransitionTo reports whether the stage machine allows the move.
// Failed is retryable, so it is not terminal: it may re-enter processing.
func (s Stage) CanTransitionTo(next Stage) bool {
	switch s {
	case StagePrompt:
		return next == StageProcessing || next == StageCancelled
	case StageProcessing:
		return next == StageSuccess || next == StageFailed
	case StageFailed:
		return next == StageProcessing
	default:
		return false
	}
}

// String representation (for logging)
func (s Stage) String() string {
	return string(s)
}
