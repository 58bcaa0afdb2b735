package chatModel

type Role string

const (
	RoleUser   Role = "user"
	RoleModel  Role = "model"
	RoleSystem Role = "system"
)

// Turn is one message of a conversation with an explicit role.
type Turn struct {
	Role Role
	Text string
}

// FromHistory converts the caller's flat ordered history into tagged turns.
// The external contract carries no role field: even positions are the user,
// odd positions are the model. The conversion happens once at the boundary
// so nothing downstream re-derives parity.
func FromHistory(history []string) []Turn {
	turns := make([]Turn, 0, len(history))
	for i, message := range history {
		role := RoleUser
		if i%2 == 1 {
			role = RoleModel
		}
		turns = append(turns, Turn{Role: role, Text: message})
	}
	return turns
}
