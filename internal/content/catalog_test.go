package content_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"answerwire/internal/content"
	id "answerwire/pkg/domain"
)

type CatalogSuite struct {
	suite.Suite
	ctx     context.Context
	catalog *content.InMemoryCatalog
}

func TestCatalogSuite(t *testing.T) {
	suite.Run(t, new(CatalogSuite))
}

func (s *CatalogSuite) SetupTest() {
	s.ctx = context.Background()
	s.catalog = content.NewInMemory()
	now := time.Now()
	s.catalog.Put(content.Template{RefID: "tmpl-hours", Category: "dental", Title: "Office hours", Body: "We're open {{hours}}.", Active: true, UpdatedAt: now})
	s.catalog.Put(content.Template{RefID: "tmpl-insurance", Category: "dental", Title: "Insurance", Body: "We accept most plans.", Active: true, UpdatedAt: now})
	s.catalog.Put(content.Template{RefID: "tmpl-retired", Category: "dental", Title: "Old promo", Body: "...", Active: false, UpdatedAt: now})
}

func (s *CatalogSuite) TestFetchPreservesOrderAndSkipsUnknown() {
	templates, err := s.catalog.FetchByRefs(s.ctx, []string{"tmpl-insurance", "tmpl-missing", "tmpl-hours"})
	s.Require().NoError(err)
	s.Require().Len(templates, 2)
	s.Equal("tmpl-insurance", templates[0].RefID)
	s.Equal("tmpl-hours", templates[1].RefID)
}

func (s *CatalogSuite) TestCountActive() {
	count, err := s.catalog.CountActive(s.ctx, []string{"tmpl-hours", "tmpl-insurance", "tmpl-retired"})
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *CatalogSuite) TestDerivePool() {
	tenantID := id.TenantID(uuid.New())
	stats, err := content.DerivePool(s.ctx, s.catalog, tenantID,
		[]string{"tmpl-hours", "tmpl-retired", "tmpl-gone"})
	s.Require().NoError(err)
	s.Equal(3, stats.LinkedRefs)
	s.Equal(1, stats.ActiveCount)
	s.Equal([]string{"tmpl-gone"}, stats.BrokenRefs)
}

func (s *CatalogSuite) TestDerivePoolNoLinks() {
	stats, err := content.DerivePool(s.ctx, s.catalog, id.TenantID(uuid.New()), nil)
	s.Require().NoError(err)
	s.Zero(stats.ActiveCount)
	s.Zero(stats.LinkedRefs)
	s.Empty(stats.BrokenRefs)
}
