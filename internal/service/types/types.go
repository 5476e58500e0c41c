package types

import "time"

const (
	StatusDone  = "done"
	StatusError = "error"
)

// Record is one evaluated expression kept in the history. Result is nil for
// failed evaluations and for non-finite values, which JSON cannot carry;
// Display always holds the rendered value of a successful evaluation.
type Record struct {
	ID         string    `json:"id"`
	Expression string    `json:"expression"`
	Status     string    `json:"status"`
	Result     *float64  `json:"result,omitempty"`
	Display    string    `json:"display,omitempty"`
	Error      string    `json:"error,omitempty"`
	Kind       string    `json:"kind,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type CalculateRequest struct {
	Expression string `json:"expression"`
}

type CalculateResponse struct {
	ID      string   `json:"id,omitempty"`
	Result  *float64 `json:"result,omitempty"`
	Display string   `json:"display,omitempty"`
	Error   string   `json:"error,omitempty"`
	Kind    string   `json:"kind,omitempty"`
}

type ExpressionsResponse struct {
	Expressions []Record `json:"expressions"`
}

type ExpressionResponse struct {
	Expression Record `json:"expression"`
}
