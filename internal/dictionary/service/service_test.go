package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks Store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"tracker/internal/dictionary/metrics"
	"tracker/internal/dictionary/models"
	"tracker/internal/dictionary/service/mocks"
	dErrors "tracker/pkg/domain-errors"
	"tracker/pkg/platform/sentinel"
)

// =============================================================================
// Dictionary Service Test Suite
// =============================================================================
// The service owns name normalization, type checking and the translation of
// store facts into coded errors. The store is mocked so each rule is pinned
// independently of a backend.

type ServiceSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	store   *mocks.MockStore
	metrics *metrics.Metrics
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.store = mocks.NewMockStore(s.ctrl)
	s.metrics = metrics.New(prometheus.NewRegistry())
	s.service = New(s.store,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithMetrics(s.metrics),
		WithStoreTimeout(time.Second),
	)
	s.ctx = context.Background()
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

// =============================================================================
// Add / Update
// =============================================================================

func (s *ServiceSuite) TestAdd() {
	s.Run("normalizes the name before writing", func() {
		s.store.EXPECT().Create(gomock.Any(), models.Entry{
			Name: "mycol", Type: "String", Nullable: models.Some(true), PII: models.Some(false), Description: "test description",
		}).Return(nil)

		got, err := s.service.Add(s.ctx, models.Entry{
			Name: "MyCol", Type: "String", Nullable: models.Some(true), PII: models.Some(false), Description: "test description",
		})
		s.Require().NoError(err)
		s.Equal("mycol", got.Name)
		s.Equal(float64(1), promtest.ToFloat64(s.metrics.EntriesAdded))
	})

	s.Run("type only entry keeps the supplied spelling", func() {
		s.store.EXPECT().Create(gomock.Any(), models.Entry{Name: "colwithnullvalues", Type: "Int", Description: "newDescription"}).Return(nil)

		got, err := s.service.Add(s.ctx, models.Entry{Name: "colWithNullValues", Type: "Int", Description: "newDescription"})
		s.Require().NoError(err)
		s.Equal("Int", got.Type)
	})

	s.Run("duplicate maps to already exists with the name in the message", func() {
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(sentinel.ErrAlreadyExists)

		_, err := s.service.Add(s.ctx, models.Entry{Name: "MYCOL", Type: "String"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeAlreadyExists))
		s.Equal("mycol already exists in data dictionary", dErrors.MessageOf(err))
	})

	s.Run("unknown type is rejected before any write", func() {
		_, err := s.service.Add(s.ctx, models.Entry{Name: "mycol", Type: "varchar"})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidType))
		s.Equal("varchar is not a valid column type for mycol", dErrors.MessageOf(err))
	})

	s.Run("missing type and name are validation errors", func() {
		_, err := s.service.Add(s.ctx, models.Entry{Name: "mycol"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.Add(s.ctx, models.Entry{Name: "  ", Type: "String"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("name longer than the column name limit is rejected before any write", func() {
		long := strings.Repeat("c", models.MaxNameLength+1)
		_, err := s.service.Add(s.ctx, models.Entry{Name: long, Type: "String"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.Update(s.ctx, models.Entry{Name: long, Type: "String"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		_, err = s.service.Validate(s.ctx, models.Candidate{Name: long, Type: "String"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})

	s.Run("name at the limit is accepted", func() {
		name := strings.Repeat("c", models.MaxNameLength)
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

		_, err := s.service.Add(s.ctx, models.Entry{Name: name, Type: "String"})
		s.NoError(err)
	})

	s.Run("store failure is internal", func() {
		s.store.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("connection reset"))

		_, err := s.service.Add(s.ctx, models.Entry{Name: "mycol", Type: "String"})
		s.Equal(dErrors.CodeInternal, dErrors.CodeOf(err))
	})
}

func (s *ServiceSuite) TestUpdate() {
	s.Run("replaces the entry", func() {
		s.store.EXPECT().Update(gomock.Any(), models.Entry{Name: "newcolupdate", Type: "Int", Description: "newDescription"}).Return(nil)

		_, err := s.service.Update(s.ctx, models.Entry{Name: "newColUpdate", Type: "Int", Description: "newDescription"})
		s.Require().NoError(err)
	})

	s.Run("absent name maps to not found", func() {
		s.store.EXPECT().Update(gomock.Any(), gomock.Any()).Return(sentinel.ErrNotFound)

		_, err := s.service.Update(s.ctx, models.Entry{Name: "Ghost", Type: "Int"})
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal("ghost does not exist in data dictionary", dErrors.MessageOf(err))
	})

	s.Run("type is validated exactly as in add", func() {
		_, err := s.service.Update(s.ctx, models.Entry{Name: "newcolupdate", Type: "text"})
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidType))
	})
}

// =============================================================================
// Get / List / Delete
// =============================================================================

func (s *ServiceSuite) TestGetAndDelete() {
	s.Run("get normalizes the name", func() {
		s.store.EXPECT().Get(gomock.Any(), "mycol").Return(models.Entry{Name: "mycol", Type: "String"}, nil)

		got, err := s.service.Get(s.ctx, "MyCol")
		s.Require().NoError(err)
		s.Equal("String", got.Type)
	})

	s.Run("get of unknown name is not found", func() {
		s.store.EXPECT().Get(gomock.Any(), "missing").Return(models.Entry{}, sentinel.ErrNotFound)

		_, err := s.service.Get(s.ctx, "missing")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("delete twice reports not found the second time", func() {
		gomock.InOrder(
			s.store.EXPECT().Delete(gomock.Any(), "gone").Return(nil),
			s.store.EXPECT().Delete(gomock.Any(), "gone").Return(sentinel.ErrNotFound),
		)

		s.Require().NoError(s.service.Delete(s.ctx, "Gone"))
		err := s.service.Delete(s.ctx, "Gone")
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("list passes entries through", func() {
		s.store.EXPECT().List(gomock.Any()).Return([]models.Entry{{Name: "a"}, {Name: "b"}}, nil)

		got, err := s.service.List(s.ctx)
		s.Require().NoError(err)
		s.Len(got, 2)
	})
}

// =============================================================================
// LookupMany
// =============================================================================

func (s *ServiceSuite) TestLookupMany() {
	s.Run("partitions found and not found", func() {
		s.store.EXPECT().GetMany(gomock.Any(), []string{"col1", "col2", "col4"}).Return(map[string]models.Entry{
			"col1": {Name: "col1", Type: "String"},
			"col2": {Name: "col2", Type: "String"},
		}, nil)

		got, err := s.service.LookupMany(s.ctx, []string{"col1", "col2", "col4"})
		s.Require().NoError(err)
		s.Len(got.Found, 2)
		s.Equal([]string{"col4"}, got.NotFound)
	})

	s.Run("duplicates collapse after normalization and order is kept", func() {
		s.store.EXPECT().GetMany(gomock.Any(), []string{"zeta", "alpha", "col1"}).Return(map[string]models.Entry{
			"col1": {Name: "col1", Type: "String"},
		}, nil)

		got, err := s.service.LookupMany(s.ctx, []string{"Zeta", "alpha", "ZETA", "COL1", "col1", "Alpha"})
		s.Require().NoError(err)
		s.Len(got.Found, 1)
		s.Equal([]string{"Zeta", "alpha"}, got.NotFound)
	})

	s.Run("blank names are reported as not found", func() {
		s.store.EXPECT().GetMany(gomock.Any(), []string{"a", "d"}).Return(map[string]models.Entry{
			"a": {Name: "a", Type: "Int"},
		}, nil)

		got, err := s.service.LookupMany(s.ctx, []string{"a", "", "d"})
		s.Require().NoError(err)
		s.Contains(got.Found, "a")
		s.Equal([]string{"", "d"}, got.NotFound)
	})

	s.Run("every distinct name lands in one partition", func() {
		s.store.EXPECT().GetMany(gomock.Any(), []string{"a", "d"}).Return(map[string]models.Entry{
			"a": {Name: "a", Type: "Int"},
		}, nil)

		input := []string{"a", "", "  ", "d"}
		got, err := s.service.LookupMany(s.ctx, input)
		s.Require().NoError(err)
		s.Len(got.Found, 1)
		s.Equal([]string{"", "  ", "d"}, got.NotFound)
		s.Equal(len(input), len(got.Found)+len(got.NotFound))
	})

	s.Run("only blank names skip the store", func() {
		got, err := s.service.LookupMany(s.ctx, []string{" ", " "})
		s.Require().NoError(err)
		s.Empty(got.Found)
		s.Equal([]string{" "}, got.NotFound)
	})

	s.Run("empty input skips the store", func() {
		got, err := s.service.LookupMany(s.ctx, nil)
		s.Require().NoError(err)
		s.Empty(got.Found)
		s.Empty(got.NotFound)
	})

	s.Run("store failure is internal", func() {
		s.store.EXPECT().GetMany(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))

		_, err := s.service.LookupMany(s.ctx, []string{"a"})
		s.Equal(dErrors.CodeInternal, dErrors.CodeOf(err))
	})
}

// =============================================================================
// Validate
// =============================================================================

func (s *ServiceSuite) TestValidate() {
	declared := models.Entry{Name: "columnvalidate1", Type: "String", Nullable: models.Some(true), PII: models.Some(false)}

	s.Run("undeclared column is not found without a report", func() {
		s.store.EXPECT().Get(gomock.Any(), "wrongcol").Return(models.Entry{}, sentinel.ErrNotFound)

		report, err := s.service.Validate(s.ctx, models.Candidate{Name: "wrongCol", Type: "Float"})
		s.Nil(report)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal(float64(1), promtest.ToFloat64(s.metrics.Validations.WithLabelValues(metrics.OutcomeNotFound)))
	})

	s.Run("mismatch returns report and conflict", func() {
		s.store.EXPECT().Get(gomock.Any(), "columnvalidate1").Return(declared, nil)

		report, err := s.service.Validate(s.ctx, models.Candidate{
			Name: "columnValidate1", Type: "Float", Nullable: models.Some(false), PII: models.Some(false),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
		s.Require().NotNil(report)
		s.Len(report.Reason, 2)
		s.Equal("Float", report.ColumnType)
		s.Equal("String", report.ExpectedType)
	})

	s.Run("matching candidate passes", func() {
		s.store.EXPECT().Get(gomock.Any(), "columnvalidate1").Return(declared, nil)

		report, err := s.service.Validate(s.ctx, models.Candidate{
			Name: "columnValidate1", Type: "String", Nullable: models.Some(true), PII: models.Some(false),
		})
		s.Require().NoError(err)
		s.True(report.Passed())
		s.Equal(float64(1), promtest.ToFloat64(s.metrics.Validations.WithLabelValues(metrics.OutcomePass)))
	})

	s.Run("missing name is a validation error", func() {
		_, err := s.service.Validate(s.ctx, models.Candidate{Type: "String"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
