// Package commit defines the port through which a published refinery list
// is sent to version control, its wire format and an HTTP client for the
// commit proxy endpoint.
package commit

import (
	"context"
	"fmt"
	"net/http"

	"github.com/oskars/refinerywatch/pkg/errors"
	"github.com/oskars/refinerywatch/pkg/refineries"
)

// Committer writes a full refinery list as a new remote revision.
//
// revision is the token the caller last saw; an empty token skips the
// check. Implementations must fail with an error matching
// errors.ErrConflict when the remote moved on.
type Committer interface {
	Commit(ctx context.Context, list []refineries.Refinery, revision string) (*Receipt, error)
}

// Receipt describes a successful commit.
type Receipt struct {
	Commit   string `json:"commit"`
	Revision string `json:"revision,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Request is the body of POST /commit-refineries.
type Request struct {
	Refineries []refineries.Refinery `json:"refineries"`
	Revision   string                `json:"revision,omitempty"`
}

// Response is the success body of POST /commit-refineries.
type Response struct {
	Success  bool   `json:"success"`
	Commit   string `json:"commit"`
	Revision string `json:"revision,omitempty"`
	Message  string `json:"message,omitempty"`
}

// ErrorResponse is the failure body of POST /commit-refineries.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// ErrUnreachable means the commit endpoint could not be contacted.
var ErrUnreachable = errors.New("commit server unreachable")

// RejectedError means the commit endpoint answered with a failure.
type RejectedError struct {
	StatusCode int
	Message    string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("commit rejected (status %d): %s", e.StatusCode, e.Message)
}

// Is implements errors.Is support.
func (e *RejectedError) Is(target error) bool {
	return target == errors.ErrConflict && e.StatusCode == http.StatusConflict
}

// Outcome classifies the result of a commit attempt.
type Outcome string

// Outcomes.
const (
	OutcomeCommitted   Outcome = "committed"
	OutcomeUnreachable Outcome = "unreachable"
	OutcomeRejected    Outcome = "rejected"
	OutcomeConflict    Outcome = "conflict"
	OutcomeDisabled    Outcome = "disabled"
)

// Classify maps a Commit error to an Outcome.
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeCommitted
	case errors.Is(err, errors.ErrNotConfigured):
		return OutcomeDisabled
	case errors.Is(err, errors.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, ErrUnreachable):
		return OutcomeUnreachable
	default:
		return OutcomeRejected
	}
}

// Disabled is a Committer for deployments without a remote.
type Disabled struct{}

// Commit implements Committer.
func (Disabled) Commit(context.Context, []refineries.Refinery, string) (*Receipt, error) {
	return nil, errors.NewConfigError("commit", "remote commit is disabled", nil)
}

// Func adapts a function to Committer.
type Func func(ctx context.Context, list []refineries.Refinery, revision string) (*Receipt, error)

// Commit implements Committer.
func (f Func) Commit(ctx context.Context, list []refineries.Refinery, revision string) (*Receipt, error) {
	return f(ctx, list, revision)
}
