package store_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/stretchr/testify/suite"

	"tracker/internal/configstore/models"
	"tracker/pkg/platform/sentinel"
)

type configStore interface {
	Create(ctx context.Context, entry models.Entry) error
	Get(ctx context.Context, key string) (models.Entry, error)
	ListPrefix(ctx context.Context, prefix string) ([]models.Entry, error)
	All(ctx context.Context) (map[string]string, error)
	Delete(ctx context.Context, key string) error
}

// contractSuite holds behavior every backend must share. Backend suites embed it
// and assign store in SetupTest against an empty backend.
type contractSuite struct {
	suite.Suite
	store configStore
	ctx   context.Context
}

func (s *contractSuite) TestCreateRejectsDuplicate() {
	s.Require().NoError(s.store.Create(s.ctx, models.Entry{Key: "myKey", Value: "configValue"}))

	err := s.store.Create(s.ctx, models.Entry{Key: "myKey", Value: "other"})
	s.ErrorIs(err, sentinel.ErrAlreadyExists)

	got, err := s.store.Get(s.ctx, "myKey")
	s.Require().NoError(err)
	s.Equal("configValue", got.Value)
}

func (s *contractSuite) TestKeysAreCaseSensitive() {
	s.Require().NoError(s.store.Create(s.ctx, models.Entry{Key: "Region", Value: "eu"}))
	s.Require().NoError(s.store.Create(s.ctx, models.Entry{Key: "region", Value: "us"}))

	got, err := s.store.Get(s.ctx, "Region")
	s.Require().NoError(err)
	s.Equal("eu", got.Value)

	_, err = s.store.Get(s.ctx, "REGION")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *contractSuite) TestListPrefix() {
	for _, key := range []string{"myGetKey2", "myGetKey", "myGet", "mygetkey3", "other"} {
		s.Require().NoError(s.store.Create(s.ctx, models.Entry{Key: key, Value: "v-" + key}))
	}

	got, err := s.store.ListPrefix(s.ctx, "myGetKey")
	s.Require().NoError(err)
	s.Equal([]models.Entry{
		{Key: "myGetKey", Value: "v-myGetKey"},
		{Key: "myGetKey2", Value: "v-myGetKey2"},
	}, got)

	got, err = s.store.ListPrefix(s.ctx, "nothing")
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *contractSuite) TestListPrefixMatchesWildcardsLiterally() {
	s.Require().NoError(s.store.Create(s.ctx, models.Entry{Key: "a*b", Value: "1"}))
	s.Require().NoError(s.store.Create(s.ctx, models.Entry{Key: "axb", Value: "2"}))
	s.Require().NoError(s.store.Create(s.ctx, models.Entry{Key: "a%b", Value: "3"}))

	got, err := s.store.ListPrefix(s.ctx, "a*")
	s.Require().NoError(err)
	s.Equal([]models.Entry{{Key: "a*b", Value: "1"}}, got)

	got, err = s.store.ListPrefix(s.ctx, "a%")
	s.Require().NoError(err)
	s.Equal([]models.Entry{{Key: "a%b", Value: "3"}}, got)
}

func (s *contractSuite) TestDeleteTwice() {
	s.Require().NoError(s.store.Create(s.ctx, models.Entry{Key: "myDeleteKey", Value: "configValue"}))

	s.Require().NoError(s.store.Delete(s.ctx, "myDeleteKey"))
	s.ErrorIs(s.store.Delete(s.ctx, "myDeleteKey"), sentinel.ErrNotFound)
}

func (s *contractSuite) TestAllReflectsAddsAndDeletes() {
	for _, key := range []string{"a", "b", "c"} {
		s.Require().NoError(s.store.Create(s.ctx, models.Entry{Key: key, Value: key}))
	}
	s.Require().NoError(s.store.Delete(s.ctx, "b"))

	all, err := s.store.All(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[string]string{"a": "a", "c": "c"}, all)
}

func (s *contractSuite) TestConcurrentCreateHasOneWinner() {
	const goroutines = 20
	var (
		wg      sync.WaitGroup
		wins    atomic.Int32
		exists  atomic.Int32
		unknown atomic.Int32
	)
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(s.ctx, models.Entry{Key: "race", Value: "v"})
			switch {
			case err == nil:
				wins.Add(1)
			case errors.Is(err, sentinel.ErrAlreadyExists):
				exists.Add(1)
			default:
				unknown.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), wins.Load())
	s.Equal(int32(goroutines-1), exists.Load())
	s.Zero(unknown.Load())
}
