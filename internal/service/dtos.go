package service

// Prediction is the result of classifying one ticket.
type Prediction struct {
	Category     string `json:"category"`
	AssignedTeam string `json:"assigned_team"`
}
