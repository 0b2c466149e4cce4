package sigs

import "github.com/gogo/protobuf/proto"

type userDataWire UserData

func (m *userDataWire) Reset()         { *m = userDataWire{} }
func (m *userDataWire) String() string { return proto.CompactTextString(m) }
func (*userDataWire) ProtoMessage()    {}
