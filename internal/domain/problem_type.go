package domain

// ProblemType is a fixed category tag for tickets. Reference data,
// seeded at first run; end users never create or mutate these.
type ProblemType struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}
