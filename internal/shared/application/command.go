package application

// Command represents a command that modifies system state.
type Command interface {
	CommandName() string
}
