// Package bigquery implements the cloud warehouse backend (spec §4.6):
// a non-transactional backend that issues best-effort DROP statements
// before materializing a model.
package bigquery

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/PowerSQL/PowerSQL/internal/engine"
	"github.com/PowerSQL/PowerSQL/internal/sqlast"
)

// Ensure Backend implements engine.Executor.
var _ engine.Executor = (*Backend)(nil)

// Backend materializes models against a BigQuery dataset using a
// service-account credentials file.
type Backend struct {
	client    *bigquery.Client
	datasetID string
	location  string
	logger    *slog.Logger
}

// New opens a BigQuery client using GOOGLE_APPLICATION_CREDENTIALS,
// PROJECT_ID, DATASET_ID, and optional LOCATION (spec §4.6). If logger is
// nil, a discard logger is used.
func New(ctx context.Context, logger *slog.Logger) (*Backend, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	projectID := os.Getenv("PROJECT_ID")
	datasetID := os.Getenv("DATASET_ID")
	if projectID == "" || datasetID == "" {
		return nil, fmt.Errorf("PROJECT_ID and DATASET_ID must be set")
	}

	var opts []option.ClientOption
	if keyFile := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); keyFile != "" {
		opts = append(opts, option.WithCredentialsFile(keyFile))
	}

	logger.Debug("connecting to bigquery", slog.String("project", projectID), slog.String("dataset", datasetID))

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("opening bigquery client: %w", err)
	}

	return &Backend{
		client:    client,
		datasetID: datasetID,
		location:  os.Getenv("LOCATION"),
		logger:    logger,
	}, nil
}

// Execute (re)materializes name: best-effort DROP VIEW / DROP TABLE (no
// transaction — BigQuery DDL is not transactional), then the model's
// statement text (spec §4.6).
func (b *Backend) Execute(ctx context.Context, name string, stmt sqlast.Statement) error {
	qualified := fmt.Sprintf("%s.%s", b.datasetID, name)

	if err := b.exec(ctx, fmt.Sprintf("DROP VIEW IF EXISTS %s", qualified)); err != nil {
		b.logger.Debug("drop view best-effort failed", slog.String("model", name), slog.Any("error", err))
	}
	if err := b.exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", qualified)); err != nil {
		b.logger.Debug("drop table best-effort failed", slog.String("model", name), slog.Any("error", err))
	}

	materializeSQL := materializeStatement(qualified, stmt)
	if err := b.exec(ctx, materializeSQL); err != nil {
		return fmt.Errorf("materializing %s: %w", name, err)
	}
	return nil
}

// QueryBool executes a single-column, single-row boolean query.
func (b *Backend) QueryBool(ctx context.Context, sql string) (bool, error) {
	q := b.client.Query(sql)
	q.Location = b.location

	it, err := q.Read(ctx)
	if err != nil {
		return false, fmt.Errorf("querying bool: %w", err)
	}

	var row []bigquery.Value
	if err := it.Next(&row); err != nil {
		if err == iterator.Done {
			return false, fmt.Errorf("querying bool: no rows returned")
		}
		return false, fmt.Errorf("querying bool: %w", err)
	}
	if len(row) == 0 {
		return false, fmt.Errorf("querying bool: no columns returned")
	}

	result, ok := row[0].(bool)
	if !ok {
		return false, fmt.Errorf("querying bool: expected boolean column, got %T", row[0])
	}
	return result, nil
}

// Close releases the client.
func (b *Backend) Close(ctx context.Context) error {
	return b.client.Close()
}

func (b *Backend) exec(ctx context.Context, sql string) error {
	q := b.client.Query(sql)
	q.Location = b.location
	job, err := q.Run(ctx)
	if err != nil {
		return err
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return err
	}
	return status.Err()
}

func materializeStatement(qualifiedName string, stmt sqlast.Statement) string {
	switch s := stmt.(type) {
	case *sqlast.CreateViewStmt:
		return fmt.Sprintf("CREATE VIEW %s AS %s", qualifiedName, sqlast.RenderQuery(s.Query))
	case *sqlast.CreateTableStmt:
		return fmt.Sprintf("CREATE TABLE %s AS %s", qualifiedName, sqlast.RenderQuery(s.Query))
	default:
		return ""
	}
}
