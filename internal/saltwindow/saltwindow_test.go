package saltwindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
)

type ProviderSuite struct {
	suite.Suite

	now      time.Time
	provider *Provider
}

func (s *ProviderSuite) SetupTest() {
	s.now = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.provider = New(time.Hour, zap.NewNop())
	s.provider.now = func() time.Time { return s.now }
}

func (s *ProviderSuite) TestSaltSize() {
	salt, err := s.provider.Current()
	s.Require().NoError(err)
	s.Len(salt, SaltSize)
}

func (s *ProviderSuite) TestStableWithinWindow() {
	first, err := s.provider.Current()
	s.Require().NoError(err)

	s.now = s.now.Add(59 * time.Minute)
	second, err := s.provider.Current()
	s.Require().NoError(err)
	s.Equal(first, second)
}

func (s *ProviderSuite) TestRotatesAfterWindow() {
	first, err := s.provider.Current()
	s.Require().NoError(err)

	s.now = s.now.Add(time.Hour)
	second, err := s.provider.Current()
	s.Require().NoError(err)
	s.NotEqual(first, second)
	s.Len(second, SaltSize)
}

func (s *ProviderSuite) TestStatic() {
	salt, err := Static([]byte("fixed")).Current()
	s.Require().NoError(err)
	s.Equal([]byte("fixed"), salt)
}

func (s *ProviderSuite) TestDisabled() {
	salt, err := Disabled{}.Current()
	s.Require().NoError(err)
	s.Nil(salt)
}

func TestProviderSuite(t *testing.T) {
	suite.Run(t, new(ProviderSuite))
}
