package domain

// Kind discriminates the closed set of inbound commands.
// Adding a kind means adding a variant below and a case in every
// dispatch switch, which the compiler and tests will point at.
type Kind int

const (
	KindJoin Kind = iota
	KindChat
	KindJoke
	KindMembers
	KindPrivate
)

// Command is one parsed inbound message from a client.
type Command interface {
	Kind() Kind
}

// JoinCommand names the session and enters it into its room.
type JoinCommand struct {
	Name string `validate:"required"`
}

func (JoinCommand) Kind() Kind { return KindJoin }

// ChatCommand broadcasts text to the whole room, sender included.
type ChatCommand struct {
	Text string `validate:"required"`
}

func (ChatCommand) Kind() Kind { return KindChat }

// JokeCommand requests a joke for the sender only.
type JokeCommand struct{}

func (JokeCommand) Kind() Kind { return KindJoke }

// MembersCommand requests the room member list for the sender only.
type MembersCommand struct{}

func (MembersCommand) Kind() Kind { return KindMembers }

// PrivateCommand sends text to a single named member of the room.
type PrivateCommand struct {
	Text     string `validate:"required"`
	Username string `validate:"required"`
}

func (PrivateCommand) Kind() Kind { return KindPrivate }
