package composite

import (
	opensearchclient "github.com/opensearch-project/opensearch-go/v2"

	"github.com/kingrain94/notes-saas-api/internal/config"
	"github.com/kingrain94/notes-saas-api/internal/repository"
	"github.com/kingrain94/notes-saas-api/internal/repository/opensearch"
	"github.com/kingrain94/notes-saas-api/internal/repository/postgres"
)

type compositeRepository struct {
	repository.PostgresRepository
	searchRepo repository.SearchRepository
}

// NewCompositeRepository joins the Postgres store with the OpenSearch note index.
// A nil osClient disables search; Search() then returns nil.
func NewCompositeRepository(dbConnections *config.DatabaseConnections, osClient *opensearchclient.Client, osConfig *config.OpenSearchConfig) repository.Repository {
	r := &compositeRepository{
		PostgresRepository: postgres.NewPostgresRepository(dbConnections),
	}
	if osClient != nil {
		r.searchRepo = opensearch.NewRepository(osClient, osConfig)
	}
	return r
}

func (r *compositeRepository) Search() repository.SearchRepository {
	return r.searchRepo
}
