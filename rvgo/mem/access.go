package mem

import "fmt"

// AccessType is the width and signedness of a memory access.
// The values match the funct3 encoding of loads and stores.
type AccessType uint8

const (
	AccessByte             AccessType = 0b000
	AccessHalfword         AccessType = 0b001
	AccessWord             AccessType = 0b010
	AccessByteUnsigned     AccessType = 0b100
	AccessHalfwordUnsigned AccessType = 0b101
	AccessNone             AccessType = 0xFF
)

// Size returns the access width in bytes, or 0 for AccessNone and unknown values.
func (t AccessType) Size() uint32 {
	switch t {
	case AccessByte, AccessByteUnsigned:
		return 1
	case AccessHalfword, AccessHalfwordUnsigned:
		return 2
	case AccessWord:
		return 4
	default:
		return 0
	}
}

// Signed reports whether reads of this type sign-extend.
func (t AccessType) Signed() bool {
	return t == AccessByte || t == AccessHalfword
}

func (t AccessType) String() string {
	switch t {
	case AccessByte:
		return "byte"
	case AccessHalfword:
		return "halfword"
	case AccessWord:
		return "word"
	case AccessByteUnsigned:
		return "byte-unsigned"
	case AccessHalfwordUnsigned:
		return "halfword-unsigned"
	case AccessNone:
		return "none"
	default:
		return fmt.Sprintf("AccessType(%d)", uint8(t))
	}
}
