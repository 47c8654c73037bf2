package harness

// QueryOutcome is what one scenario query produced.
type QueryOutcome struct {
	Name   string     `json:"name"`
	EvalID string     `json:"eval_id,omitempty"`
	Vars   []string   `json:"vars,omitempty"`
	Rows   [][]string `json:"rows"`
	Error  string     `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true if every expectation and assertion held.
	Pass bool `json:"pass"`

	// Queries hold per-query outcomes in scenario order.
	Queries []QueryOutcome `json:"queries"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Statements is the number of statements loaded from data.
	Statements int `json:"statements"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Queries: []QueryOutcome{},
		Errors:  []string{},
	}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// Outcome returns the named query outcome, or nil.
func (r *Result) Outcome(name string) *QueryOutcome {
	for i := range r.Queries {
		if r.Queries[i].Name == name {
			return &r.Queries[i]
		}
	}
	return nil
}
