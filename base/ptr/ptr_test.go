package ptr

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type pointerSuite struct {
	suite.Suite
}

func (s *pointerSuite) TestPointer() {
	s.Equal("abc123", *String(`abc123`))
	s.Equal(true, *Bool(true))
	s.Equal(uint64(60), *Uint64(60))
}

func (s *pointerSuite) TestBoolValue() {
	s.True(BoolValue(nil, true))
	s.False(BoolValue(Bool(false), true))
}

func (s *pointerSuite) TestInt32Value() {
	s.Equal(int32(7), Int32Value(nil, 7))
	s.Equal(int32(-1), Int32Value(Int32(-1), 7))
}

func TestPointerSuite(t *testing.T) {
	suite.Run(t, new(pointerSuite))
}
