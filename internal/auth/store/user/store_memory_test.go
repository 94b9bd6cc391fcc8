package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	id "carehub/pkg/domain"
	"carehub/pkg/platform/sentinel"
	"carehub/pkg/testutil"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = New()
}

func (s *InMemoryUserStoreSuite) TestCreateAndFind() {
	user := testutil.NewUserBuilder().WithEmail("jane.doe@example.com").Build()

	require.NoError(s.T(), s.store.Create(context.Background(), user))

	foundByEmail, err := s.store.FindByEmail(context.Background(), user.Email)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), user, foundByEmail)

	foundByID, err := s.store.FindByID(context.Background(), user.ID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), user, foundByID)
}

func (s *InMemoryUserStoreSuite) TestFindNotFound() {
	_, err := s.store.FindByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)

	_, err = s.store.FindByID(context.Background(), id.NewUserID())
	assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
}

func (s *InMemoryUserStoreSuite) TestCreateRejectsDuplicates() {
	first := testutil.NewUserBuilder().WithEmail("a@example.com").WithIDNumber("ID-1").Build()
	require.NoError(s.T(), s.store.Create(context.Background(), first))

	s.Run("same email", func() {
		dup := testutil.NewUserBuilder().WithEmail("a@example.com").WithIDNumber("ID-2").Build()
		assert.ErrorIs(s.T(), s.store.Create(context.Background(), dup), sentinel.ErrConflict)
	})

	s.Run("same id number", func() {
		dup := testutil.NewUserBuilder().WithEmail("b@example.com").WithIDNumber("ID-1").Build()
		assert.ErrorIs(s.T(), s.store.Create(context.Background(), dup), sentinel.ErrConflict)
	})

	s.Run("same id", func() {
		dup := testutil.NewUserBuilder().WithID(first.ID).WithEmail("c@example.com").WithIDNumber("ID-3").Build()
		assert.ErrorIs(s.T(), s.store.Create(context.Background(), dup), sentinel.ErrConflict)
	})

	s.Run("rejected users leave no trace", func() {
		_, err := s.store.FindByEmail(context.Background(), "b@example.com")
		assert.ErrorIs(s.T(), err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryUserStoreSuite) TestReturnedUsersAreCopies() {
	user := testutil.NewUserBuilder().Build()
	require.NoError(s.T(), s.store.Create(context.Background(), user))

	user.FirstName = "Mutated"
	found, err := s.store.FindByEmail(context.Background(), user.Email)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Test", found.FirstName)

	found.FirstName = "Mutated again"
	again, err := s.store.FindByEmail(context.Background(), user.Email)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Test", again.FirstName)
}

func (s *InMemoryUserStoreSuite) TestCreateNil() {
	assert.Error(s.T(), s.store.Create(context.Background(), nil))
}

func (s *InMemoryUserStoreSuite) TestConcurrentCreateSameEmail() {
	const goroutines = 50
	result := testutil.RunConcurrent(goroutines, func(i int) error {
		u := testutil.NewUserBuilder().
			WithEmail("race@example.com").
			WithIDNumber(fmt.Sprintf("ID-%d", i)).
			Build()
		return s.store.Create(context.Background(), u)
	})

	assert.Equal(s.T(), int32(1), result.Successes)
	assert.Equal(s.T(), int32(goroutines-1), result.Conflicts)
	assert.Equal(s.T(), int32(0), result.Errors)
}

func (s *InMemoryUserStoreSuite) TestHealth() {
	assert.NoError(s.T(), s.store.Health(context.Background()))
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

