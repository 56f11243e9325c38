package model

import (
	"strings"
	"time"
)

// Credential role keys as stored in the credential table.
const (
	RoleSender          = "sender"
	RoleRecipientPrefix = "recipient"
)

// Credential is one row of the credential table.
type Credential struct {
	Role    string
	Address string
}

// IsSender reports whether the record names the sender address.
func (c Credential) IsSender() bool { return c.Role == RoleSender }

// IsRecipient reports whether the record names a recipient address.
func (c Credential) IsRecipient() bool { return strings.HasPrefix(c.Role, RoleRecipientPrefix) }

// Event is the invocation payload. A nil Tickers keeps the configured table.
type Event struct {
	Tickers TickerTable `yaml:"tickers" json:"tickers"`
}

// Invocation describes the environment a run executes in.
type Invocation struct {
	FunctionName    string
	FunctionVersion string
	RemainingTime   time.Duration // zero means unbounded
}

// DefaultInvocation is used for local and scheduled runs.
func DefaultInvocation() Invocation {
	return Invocation{FunctionName: "local", FunctionVersion: "dev"}
}

// RunStatus is the coarse outcome of a run.
type RunStatus string

const (
	StatusSuccess RunStatus = "success"
	StatusFailure RunStatus = "failure"
)

// Result is the structured outcome returned to the invoker.
type Result struct {
	StatusCode int       `json:"statusCode"`
	Status     RunStatus `json:"status"`
	Body       string    `json:"body"`
}

// OK reports whether the run succeeded.
func (r Result) OK() bool { return r.Status == StatusSuccess }
