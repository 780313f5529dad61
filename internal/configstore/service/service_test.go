package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tracker/internal/configstore/models"
	"tracker/internal/configstore/service/mocks"
	dErrors "tracker/pkg/domain-errors"
	"tracker/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.service = New(s.store)
	s.ctx = context.Background()
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *ServiceSuite) TestAdd() {
	s.Run("stores the key as given", func() {
		s.store.EXPECT().Create(gomock.Any(), models.Entry{Key: "myKey", Value: "configValue"}).Return(nil)
		s.NoError(s.service.Add(s.ctx, "myKey", "configValue"))
	})

	s.Run("duplicate names the key", func() {
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrAlreadyExists)

		err := s.service.Add(s.ctx, "myKey", "configValue")
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyExists))
		s.Equal("Configuration for myKey already exists.", dErrors.MessageOf(err))
	})

	s.Run("empty key is rejected without a write", func() {
		err := s.service.Add(s.ctx, "", "v")
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("store failure is internal", func() {
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("broken pipe"))
		s.Equal(dErrors.CodeInternal, dErrors.CodeOf(s.service.Add(s.ctx, "k", "v")))
	})
}

func (s *ServiceSuite) TestDelete() {
	gomock.InOrder(
		s.store.EXPECT().Delete(gomock.Any(), "myDeleteKey").Return(nil),
		s.store.EXPECT().Delete(gomock.Any(), "myDeleteKey").Return(sentinel.ErrNotFound),
	)

	s.Require().NoError(s.service.Delete(s.ctx, "myDeleteKey"))

	err := s.service.Delete(s.ctx, "myDeleteKey")
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	s.Equal("No configuration found for myDeleteKey", dErrors.MessageOf(err))
}

func (s *ServiceSuite) TestGet() {
	s.Run("strict reads exactly the key", func() {
		s.store.EXPECT().Get(gomock.Any(), "myGetKey").Return(models.Entry{Key: "myGetKey", Value: "configValue"}, nil)

		got, err := s.service.Get(s.ctx, "myGetKey", true)
		s.Require().NoError(err)
		s.Equal([]models.Entry{{Key: "myGetKey", Value: "configValue"}}, got)
	})

	s.Run("non strict returns every prefixed key", func() {
		s.store.EXPECT().ListPrefix(gomock.Any(), "myGetKey").Return([]models.Entry{
			{Key: "myGetKey", Value: "configValue"},
			{Key: "myGetKey2", Value: "configValue"},
		}, nil)

		got, err := s.service.Get(s.ctx, "myGetKey", false)
		s.Require().NoError(err)
		s.Len(got, 2)
		s.Equal("myGetKey", got[0].Key)
	})

	s.Run("no match is not found in both modes", func() {
		s.store.EXPECT().Get(gomock.Any(), "dummyKey").Return(models.Entry{}, sentinel.ErrNotFound)
		s.store.EXPECT().ListPrefix(gomock.Any(), "dummyKey").Return([]models.Entry{}, nil)

		_, err := s.service.Get(s.ctx, "dummyKey", true)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		_, err = s.service.Get(s.ctx, "dummyKey", false)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal("No configuration found for dummyKey", dErrors.MessageOf(err))
	})
}

func (s *ServiceSuite) TestGetAll() {
	s.store.EXPECT().All(gomock.Any()).Return(map[string]string{"a": "1"}, nil)

	got, err := s.service.GetAll(s.ctx)
	s.Require().NoError(err)
	s.Equal(map[string]string{"a": "1"}, got)
}
