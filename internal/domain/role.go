package domain

// Role identifies the three actor categories of an evaluation session.
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleEvaluator Role = "EVALUATOR"
	RoleTeam      Role = "TEAM"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleEvaluator, RoleTeam:
		return true
	}
	return false
}
