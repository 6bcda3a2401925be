package config

import (
	"crypto/tls"
	"fmt"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v2"
)

type OpenSearchConfig struct {
	Host        string
	Port        string
	Username    string
	Password    string
	IndexPrefix string
}

func DefaultOpenSearchConfig() *OpenSearchConfig {
	return &OpenSearchConfig{
		Host:        getEnvWithDefault("OPENSEARCH_HOST", "localhost"),
		Port:        getEnvWithDefault("OPENSEARCH_PORT", "9200"),
		Username:    getEnvWithDefault("OPENSEARCH_USERNAME", ""),
		Password:    getEnvWithDefault("OPENSEARCH_PASSWORD", ""),
		IndexPrefix: getEnvWithDefault("OPENSEARCH_INDEX_PREFIX", "notes"),
	}
}

func (c *OpenSearchConfig) GetClient() (*opensearch.Client, error) {
	config := opensearch.Config{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: getEnvBoolWithDefault("OPENSEARCH_INSECURE_SKIP_VERIFY", true),
			},
		},
		Addresses: []string{
			fmt.Sprintf("http://%s:%s", c.Host, c.Port),
		},
	}

	if c.Username != "" && c.Password != "" {
		config.Username = c.Username
		config.Password = c.Password
	}

	return opensearch.NewClient(config)
}

// GetIndexName returns the note index of a tenant.
// Format: notes_<tenant_slug>
func (c *OpenSearchConfig) GetIndexName(tenantSlug string) string {
	return fmt.Sprintf("%s_%s", c.IndexPrefix, tenantSlug)
}
