package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/suite"

	"tracker/internal/dictionary/models"
	"tracker/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *InMemoryStore
	ctx   context.Context
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = NewInMemoryStore()
	s.ctx = context.Background()
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func entry(name, colType string) models.Entry {
	return models.Entry{Name: name, Type: colType, Nullable: models.Some(true), PII: models.Some(false)}
}

func (s *InMemoryStoreSuite) TestCreateAndGet() {
	s.Run("creates and finds entry", func() {
		s.Require().NoError(s.store.Create(s.ctx, entry("mycol", "String")))

		found, err := s.store.Get(s.ctx, "mycol")
		s.Require().NoError(err)
		s.Equal("String", found.Type)
		s.Equal(models.Some(true), found.Nullable)
	})

	s.Run("rejects duplicate and keeps the original", func() {
		err := s.store.Create(s.ctx, entry("mycol", "Int"))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyExists)

		found, err := s.store.Get(s.ctx, "mycol")
		s.Require().NoError(err)
		s.Equal("String", found.Type)
	})

	s.Run("returns ErrNotFound for unknown name", func() {
		_, err := s.store.Get(s.ctx, "missing")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestUpdate() {
	s.Run("replaces every field", func() {
		s.Require().NoError(s.store.Create(s.ctx, models.Entry{Name: "newcolupdate", Type: "String", Nullable: models.Some(true), Description: "test description"}))
		s.Require().NoError(s.store.Update(s.ctx, models.Entry{Name: "newcolupdate", Type: "Int", Description: "newDescription"}))

		found, err := s.store.Get(s.ctx, "newcolupdate")
		s.Require().NoError(err)
		s.Equal("Int", found.Type)
		s.Equal("newDescription", found.Description)
		s.False(found.Nullable.Set)
	})

	s.Run("returns ErrNotFound for unknown name", func() {
		err := s.store.Update(s.ctx, entry("missing", "Int"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryStoreSuite) TestGetManyAndList() {
	for _, name := range []string{"col1", "col2", "col3"} {
		s.Require().NoError(s.store.Create(s.ctx, entry(name, "String")))
	}

	found, err := s.store.GetMany(s.ctx, []string{"col1", "col2", "col4"})
	s.Require().NoError(err)
	s.Len(found, 2)
	s.Contains(found, "col1")
	s.NotContains(found, "col4")

	all, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Len(all, 3)
	s.Equal("col1", all[0].Name)
}

func (s *InMemoryStoreSuite) TestDelete() {
	s.Require().NoError(s.store.Create(s.ctx, entry("gone", "Long")))
	s.Require().NoError(s.store.Delete(s.ctx, "gone"))
	s.Require().ErrorIs(s.store.Delete(s.ctx, "gone"), sentinel.ErrNotFound)

	_, err := s.store.Get(s.ctx, "gone")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryStoreSuite) TestConcurrentCreateHasOneWinner() {
	const goroutines = 50
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		conflicts atomic.Int32
	)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(s.ctx, entry("racecol", "String"))
			switch err {
			case nil:
				successes.Add(1)
			case sentinel.ErrAlreadyExists:
				conflicts.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successes.Load())
	s.Equal(int32(goroutines-1), conflicts.Load())
}
