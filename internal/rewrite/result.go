package rewrite

// Result is the outcome of one rewrite call: either replacement text or a
// no-op meaning the segment must be left as it was.
type Result struct {
	text   string
	noop   bool
	reason string
}

// Rewritten wraps model output that should replace the segment body.
func Rewritten(text string) Result {
	return Result{text: text}
}

// NoOp signals that the segment must be left unchanged.
func NoOp(reason string) Result {
	return Result{noop: true, reason: reason}
}

// IsNoOp reports whether the result carries no replacement.
func (r Result) IsNoOp() bool {
	return r.noop
}

// Text returns the rewritten text. It is empty for a no-op.
func (r Result) Text() string {
	return r.text
}

// Reason explains a no-op. It is empty for rewritten results.
func (r Result) Reason() string {
	return r.reason
}
