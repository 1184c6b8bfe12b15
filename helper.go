package asynclog

import (
	stderrs "errors"
	"strings"

	smerrors "github.com/Station-Manager/errors"
)

// buildErrorChain walks an error's cause chain and returns:
//   - chain: outermost -> innermost error messages
//   - ops: operation identifiers for DetailedError links ("" if not available)
//   - root: the innermost error message
//   - rootOp: the innermost operation identifier if available
//
// The traversal prefers Station-Manager DetailedError.Cause() and then
// falls back to stdlib errors.Unwrap. It guards against excessive depth
// and repeated messages to avoid cycles.
func buildErrorChain(err error) (chain []string, ops []string, root string, rootOp string) {
	const maxDepth = 50
	visited := 0
	seen := map[string]bool{}

	for err != nil && visited < maxDepth {
		visited++

		if dErr, ok := smerrors.AsDetailedError(err); ok && dErr != nil {
			chain = append(chain, dErr.Error())
			ops = append(ops, string(dErr.Op()))
			err = dErr.Cause()
			continue
		}

		msg := err.Error()
		if seen[msg] {
			break
		}
		seen[msg] = true
		chain = append(chain, msg)
		ops = append(ops, "")
		err = stderrs.Unwrap(err)
	}

	if len(chain) > 0 {
		root = chain[len(chain)-1]
	}
	if len(ops) > 0 {
		rootOp = ops[len(ops)-1]
	}
	return
}

// joinChain returns a single string for the error chain separated by " -> ".
func joinChain(chain []string) string {
	if len(chain) == 0 {
		return ""
	}
	return strings.Join(chain, " -> ")
}

// reportError writes a failure of the service itself to the diagnostics
// logger. Reports are rate limited so a broken disk cannot flood stderr.
func (s *Service) reportError(msg string, err error) {
	if s.diagLimit != nil && !s.diagLimit.Allow() {
		return
	}
	ev := s.diag.Error().Err(err)
	if chain, ops, root, rootOp := buildErrorChain(err); len(chain) > 0 {
		ev = ev.Strs("error_chain", chain).
			Str("error_root", root).
			Str("error_history", joinChain(chain)).
			Strs("error_ops", ops)
		if rootOp != "" {
			ev = ev.Str("error_root_op", rootOp)
		}
	}
	ev.Int64("dropped_lines", s.dropped.Load()).Msg(msg)
}
