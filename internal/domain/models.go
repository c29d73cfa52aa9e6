package domain

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Component is anything the playground can initialize and describe
type Component interface {
	Name() string
	Description() string
}
