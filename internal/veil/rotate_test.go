package veil_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ipveil/ipveil/internal/veil"
)

type RotatorSuite struct {
	suite.Suite
}

func (s *RotatorSuite) TestSchemeSelection() {
	rotator, err := veil.NewRotator("hkdf")
	s.Require().NoError(err)
	s.IsType(veil.HKDFRotator{}, rotator)

	rotator, err = veil.NewRotator("legacy")
	s.Require().NoError(err)
	s.IsType(veil.LegacyRotator{}, rotator)

	_, err = veil.NewRotator("md5")
	s.Error(err)
}

func (s *RotatorSuite) TestEmptySaltYieldsZeroAddr() {
	for _, rotator := range []veil.Rotator{veil.HKDFRotator{}, veil.LegacyRotator{}} {
		for _, addr := range []veil.Addr{
			{127, 0, 0, 1},
			{255, 255, 255, 255},
			{1, 2, 3, 4},
		} {
			out, err := rotator.Rotate(addr, nil)
			s.Require().NoError(err)
			s.Equal(veil.Addr{}, out)

			out, err = rotator.Rotate(addr, []byte{})
			s.Require().NoError(err)
			s.Equal(veil.Addr{}, out)
		}
	}
}

func (s *RotatorSuite) TestHKDF() {
	tests := []struct {
		addr     veil.Addr
		salt     string
		expected veil.Addr
	}{
		{veil.Addr{127, 0, 0, 1}, "salt", veil.Addr{94, 22, 74, 180}},
		{veil.Addr{255, 255, 255, 255}, "salt", veil.Addr{51, 42, 235, 181}},
		{veil.Addr{192, 168, 0, 1}, "salt", veil.Addr{149, 109, 31, 252}},
		{veil.Addr{10, 10, 10, 10}, "salt", veil.Addr{115, 227, 98, 97}},
		{veil.Addr{1, 2, 3, 4}, "salt", veil.Addr{214, 212, 246, 122}},
		{veil.Addr{127, 0, 0, 1}, "secret", veil.Addr{231, 166, 51, 173}},
		{veil.Addr{127, 0, 0, 1}, "secret2", veil.Addr{122, 199, 128, 106}},
	}
	for _, test := range tests {
		out, err := veil.HKDFRotator{}.Rotate(test.addr, []byte(test.salt))
		s.Require().NoError(err)
		s.Equal(test.expected, out, "addr %v salt %q", test.addr, test.salt)
	}
}

func (s *RotatorSuite) TestLegacy() {
	tests := []struct {
		addr     veil.Addr
		salt     string
		expected veil.Addr
	}{
		{veil.Addr{127, 0, 0, 1}, "salt", veil.Addr{50, 13, 148, 74}},
		{veil.Addr{255, 255, 255, 255}, "salt", veil.Addr{61, 33, 9, 143}},
		{veil.Addr{192, 168, 0, 1}, "salt", veil.Addr{108, 162, 38, 49}},
		{veil.Addr{10, 10, 10, 10}, "salt", veil.Addr{160, 244, 40, 149}},
		{veil.Addr{1, 2, 3, 4}, "salt", veil.Addr{43, 16, 112, 144}},
		{veil.Addr{127, 0, 0, 1}, "secret", veil.Addr{112, 64, 123, 134}},
	}
	for _, test := range tests {
		out, err := veil.LegacyRotator{}.Rotate(test.addr, []byte(test.salt))
		s.Require().NoError(err)
		s.Equal(test.expected, out, "addr %v salt %q", test.addr, test.salt)
	}
}

func (s *RotatorSuite) TestDeterministic() {
	for _, rotator := range []veil.Rotator{veil.HKDFRotator{}, veil.LegacyRotator{}} {
		first, err := rotator.Rotate(veil.Addr{10, 20, 30, 40}, []byte("window-salt"))
		s.Require().NoError(err)
		second, err := rotator.Rotate(veil.Addr{10, 20, 30, 40}, []byte("window-salt"))
		s.Require().NoError(err)
		s.Equal(first, second)
	}
}

func TestRotatorSuite(t *testing.T) {
	suite.Run(t, new(RotatorSuite))
}
