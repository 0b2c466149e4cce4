/*
Package errors implements the error model shared by every package of the
ledger.

Each failure is categorized by a root error declared with Register. A root
error carries an ABCI code that is returned to the client, so the code must
be unique across the whole application. Runtime errors are created by
wrapping a root error with additional context:

	return errors.Wrap(errors.ErrNotFound, "treasury")
	return errors.Wrapf(ErrNotMember, "address %s", addr)

The first wrap attaches a stack trace. Print an error with %+v to see it.

Use the Is method of a root error to test the kind of any wrapped error:

	if errors.ErrNotFound.Is(err) {
		...
	}
*/
package errors
