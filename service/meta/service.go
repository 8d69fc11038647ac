package meta

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
	"gopkg.in/yaml.v3"
)

// Service loads declarative definitions (policy catalogs, approver rosters)
// from YAML documents addressed by URL.  Any scheme supported by afs works:
// file, mem, embedded, cloud storage.  Values may reference environment
// variables via ${env.KEY}.
type Service struct {
	fs        afs.Service
	baseURL   string
	fsOptions []storage.Option
}

// New creates a meta service.  baseURL is joined with relative URLs passed
// to Load.
func New(fs afs.Service, baseURL string, options ...storage.Option) *Service {
	return &Service{fs: fs, baseURL: baseURL, fsOptions: options}
}

// Load downloads the document at URL and unmarshals it into target.
func (s *Service) Load(ctx context.Context, URL string, target interface{}) error {
	located := s.locate(URL)
	data, err := s.fs.DownloadWithURL(ctx, located, s.fsOptions...)
	if err != nil {
		return fmt.Errorf("failed to load definition from %s: %w", located, err)
	}
	expanded := expandEnvExpr(string(data))
	if err = yaml.Unmarshal([]byte(expanded), target); err != nil {
		return fmt.Errorf("failed to parse definition %s: %w", located, err)
	}
	return nil
}

func (s *Service) locate(URL string) string {
	if s.baseURL == "" || strings.Contains(URL, "://") || strings.HasPrefix(URL, "/") {
		return URL
	}
	return url.Join(s.baseURL, URL)
}
