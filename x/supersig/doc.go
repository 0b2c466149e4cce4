/*
Package supersig implements treasuries controlled by the majority of their
members.

A treasury (supersig) is an account whose address is derived from the
module identifier and the treasury index. Nobody holds a key for it. The
treasury acts only through calls proposed by its members and approved by
more than half of them.

Operations:

  create          create a treasury with the given members. The signer
                  funds it with max(minimal balance, members deposit).
                  The signer is NOT a member unless listed.
  submit_call     a member proposes an encoded message. The deposit for
                  its bytes is reserved from the member.
  approve_call    a member votes for a call. When len(members)/2 + 1
                  members approved, the call is executed as the treasury
                  and the deposit returned.
  remove_call     the treasury or the provider withdraws a call.
  add_members     the treasury adds members and reserves their deposit.
  remove_members  the treasury removes members and releases their deposit.
  remove          the treasury dissolves itself and sends its funds to a
                  beneficiary.
  leave           a member leaves. The members deposit is kept.

Operations that must be authorized by the treasury are only reachable
through an approved call. The treasury is the only authenticated address
while such a call is executed.

Deposits are priced per byte: 20 bytes per member and one byte per byte of
a call.
*/
package supersig
