package export

// Result is how an export ended. Cancellation is its own outcome, not a
// failure: a cancelled job did what it was told.
type Result string

const (
	ResultCompleted Result = "completed"
	ResultCancelled Result = "cancelled"
	ResultFailed    Result = "failed"
)

// Outcome pairs the result with the error that produced it. Err is nil
// unless Result is ResultFailed.
type Outcome struct {
	Result Result
	Err    error
}
