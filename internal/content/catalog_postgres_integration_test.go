//go:build integration

package content_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"answerwire/internal/content"
	"answerwire/pkg/testutil/containers"
)

type PostgresCatalogSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	catalog  *content.PostgresCatalog
}

func TestPostgresCatalogSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresCatalogSuite))
}

func (s *PostgresCatalogSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.catalog = content.NewPostgres(s.postgres.DB)
}

func (s *PostgresCatalogSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "content_templates"))
}

func (s *PostgresCatalogSuite) insertTemplate(refID, category string, active bool) {
	_, err := s.postgres.DB.ExecContext(context.Background(), `
		INSERT INTO content_templates (ref_id, category, title, body, active, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
	`, refID, category, "Title "+refID, "Body for "+refID, active)
	s.Require().NoError(err)
}

func (s *PostgresCatalogSuite) TestFetchByRefsPreservesOrderAndSkipsUnknown() {
	ctx := context.Background()
	s.insertTemplate("tmpl-office-hours", "dental", true)
	s.insertTemplate("tmpl-insurance", "dental", true)
	s.insertTemplate("tmpl-emergency", "dental", false)

	got, err := s.catalog.FetchByRefs(ctx, []string{
		"tmpl-insurance", "tmpl-missing", "tmpl-office-hours", "tmpl-emergency",
	})
	s.Require().NoError(err)
	s.Require().Len(got, 3)
	s.Equal("tmpl-insurance", got[0].RefID)
	s.Equal("tmpl-office-hours", got[1].RefID)
	s.Equal("tmpl-emergency", got[2].RefID)
	s.False(got[2].Active)
}

func (s *PostgresCatalogSuite) TestFetchByRefsEmptyInput() {
	got, err := s.catalog.FetchByRefs(context.Background(), nil)
	s.Require().NoError(err)
	s.Empty(got)
}

func (s *PostgresCatalogSuite) TestCountActive() {
	ctx := context.Background()
	s.insertTemplate("tmpl-a", "dental", true)
	s.insertTemplate("tmpl-b", "dental", false)
	s.insertTemplate("tmpl-c", "vet", true)

	count, err := s.catalog.CountActive(ctx, []string{"tmpl-a", "tmpl-b", "tmpl-c", "tmpl-ghost"})
	s.Require().NoError(err)
	s.Equal(2, count)
}
