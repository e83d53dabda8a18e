package db

import (
	"context"
	"fmt"
	"time"

	"github.com/TFMV/surrealmeter/config"
	"github.com/TFMV/surrealmeter/schema"
	"github.com/TFMV/surrealmeter/types"
	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"
)

type Config struct {
	URL       string
	Namespace string
	Database  string
	Username  string
	Password  string
}

// ConfigFromSettings reads the sm.db.* settings.
func ConfigFromSettings(s *config.Settings) Config {
	return Config{
		URL:       s.GetString(config.KeyDBURL),
		Namespace: s.GetString(config.KeyDBNamespace),
		Database:  s.GetString(config.KeyDBDatabase),
		Username:  s.GetString(config.KeyDBUsername),
		Password:  s.GetString(config.KeyDBPassword),
	}
}

type SurrealDB struct {
	db     *surrealdb.DB
	config Config
}

// run is the record written once per analysis.
type run struct {
	ID        *models.RecordID `json:"id,omitempty"`
	RunID     string           `json:"run_id"`
	Project   string           `json:"project"`
	Languages []string         `json:"languages"`
	Resources int              `json:"resources"`
	Issues    int              `json:"issues"`
	StoredAt  time.Time        `json:"stored_at"`
}

func NewSurrealDB(config Config) (*SurrealDB, error) {
	db, err := surrealdb.New(config.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return &SurrealDB{
		db:     db,
		config: config,
	}, nil
}

func (s *SurrealDB) Initialize(ctx context.Context) error {
	if err := s.db.Use(s.config.Namespace, s.config.Database); err != nil {
		return fmt.Errorf("failed to set namespace/database: %w", err)
	}

	authData := &surrealdb.Auth{
		Username: s.config.Username,
		Password: s.config.Password,
	}
	token, err := s.db.SignIn(authData)
	if err != nil {
		return fmt.Errorf("failed to sign in: %w", err)
	}

	if err := s.db.Authenticate(token); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}

	if err := schema.InitializeSchema(s.db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	return nil
}

func (s *SurrealDB) Close() error {
	return s.db.Close()
}

func (s *SurrealDB) StoreAnalysis(ctx context.Context, report types.AnalysisReport) error {
	r := run{
		RunID:     report.RunID,
		Project:   report.Project,
		Languages: report.Languages,
		Resources: len(report.Resources),
		Issues:    len(report.Issues),
		StoredAt:  time.Now().UTC(),
	}
	if _, err := surrealdb.Create[run](s.db, models.Table(schema.TableRuns), r); err != nil {
		return fmt.Errorf("error storing run %s: %v", report.RunID, err)
	}

	// Store resources
	for _, res := range report.Resources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := surrealdb.Create[types.Resource](s.db, models.Table(schema.TableResources), res); err != nil {
			return fmt.Errorf("error storing resource %s: %v", res.Key, err)
		}
	}

	// Store measures
	for _, m := range report.Measures {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := surrealdb.Create[types.Measure](s.db, models.Table(schema.TableMeasures), m); err != nil {
			return fmt.Errorf("error storing measure %s of %s: %v", m.MetricKey, m.ResourceKey, err)
		}
	}

	// Store issues
	for _, is := range report.Issues {
		if _, err := surrealdb.Create[types.Issue](s.db, models.Table(schema.TableIssues), is); err != nil {
			return fmt.Errorf("error storing issue %s at %s:%d: %v", is.RuleKey, is.Path, is.Line, err)
		}
	}

	// Store trees
	for _, tree := range report.Trees {
		if _, err := surrealdb.Create[types.TreeData](s.db, models.Table(schema.TableTrees), tree); err != nil {
			return fmt.Errorf("error storing tree %s: %v", tree.Key, err)
		}
	}

	return nil
}
