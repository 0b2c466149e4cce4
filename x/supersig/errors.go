package supersig

import "github.com/iov-one/supersig/errors"

var (
	ErrInvalidSupersig      = errors.Register(1100, "supersig needs at least one member")
	ErrSupersigNotFound     = errors.Register(1101, "supersig not found")
	ErrCallNotFound         = errors.Register(1102, "call not found")
	ErrNotMember            = errors.Register(1103, "not a supersig member")
	ErrAlreadyVoted         = errors.Register(1104, "already voted")
	ErrNotAllowed           = errors.Register(1105, "not allowed")
	ErrCannotDeleteSupersig = errors.Register(1106, "supersig holds foreign reserved balance")
	ErrCannotRemoveUsers    = errors.Register(1107, "cannot remove every member")
)
