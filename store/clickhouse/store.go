// Package clickhouse implements RecordSource on a ClickHouse table of JSON
// campaign documents. Columnar storage keeps full-collection scans cheap;
// filters are pushed down as JSONExtract predicates so the engine only
// receives matching records.
package clickhouse

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/google/uuid"

	"campaign-insights/pkg/platform"
	"campaign-insights/pkg/records"
)

// Config holds ClickHouse connection configuration.
type Config struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Debug    bool
}

// DefaultConfig returns configuration from the environment with development
// defaults.
func DefaultConfig() *Config {
	return &Config{
		Host:     platform.GetEnv("CLICKHOUSE_HOST", "localhost"),
		Port:     platform.GetEnvInt("CLICKHOUSE_PORT", 9000),
		Database: platform.GetEnv("CLICKHOUSE_DATABASE", "campaigns"),
		Username: platform.GetEnv("CLICKHOUSE_USER", "default"),
		Password: platform.GetEnv("CLICKHOUSE_PASSWORD", ""),
		Debug:    platform.GetEnvBool("CLICKHOUSE_DEBUG", false),
	}
}

// Store is the ClickHouse-backed record source.
type Store struct {
	conn clickhouse.Conn
	cfg  *Config
}

// NewStore opens a native-protocol connection. A nil cfg uses DefaultConfig.
func NewStore(cfg *Config) (*Store, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Debug: cfg.Debug,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	return &Store{conn: conn, cfg: cfg}, nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Migrate creates the campaign_records table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS campaign_records (
			id         UUID,
			channel    LowCardinality(String),
			doc        String,
			created_at DateTime DEFAULT now()
		) ENGINE = MergeTree()
		ORDER BY (channel, created_at)
	`
	return s.conn.Exec(ctx, query)
}

// Insert stores a batch of documents, JSON-encoded, tagged with channelName
// (may be empty for untagged documents).
func (s *Store) Insert(ctx context.Context, channelName string, docs []records.RawRecord) error {
	if len(docs) == 0 {
		return nil
	}
	batch, err := s.conn.PrepareBatch(ctx, "INSERT INTO campaign_records (id, channel, doc, created_at)")
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}
	now := time.Now().UTC()
	for _, d := range docs {
		raw, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("encode document: %w", err)
		}
		if err := batch.Append(uuid.New(), channelName, string(raw), now); err != nil {
			return fmt.Errorf("append document: %w", err)
		}
	}
	return batch.Send()
}

// Query fetches documents matching the filter for one channel. Untagged
// documents (empty channel column) match any channel. Scalar filter values
// become JSONExtract predicates evaluated inside ClickHouse.
func (s *Store) Query(ctx context.Context, channelName string, f records.Filter) ([]records.RawRecord, error) {
	query := "SELECT doc FROM campaign_records WHERE (channel = ? OR channel = '')"
	args := []any{channelName}

	for key, value := range f {
		if key == "channel" {
			continue
		}
		switch v := value.(type) {
		case string:
			query += " AND JSONExtractString(doc, ?) = ?"
			args = append(args, key, v)
		case bool:
			query += " AND JSONExtractBool(doc, ?) = ?"
			args = append(args, key, v)
		case float64:
			query += " AND JSONExtractFloat(doc, ?) = ?"
			args = append(args, key, v)
		case int:
			query += " AND JSONExtractFloat(doc, ?) = ?"
			args = append(args, key, float64(v))
		case int64:
			query += " AND JSONExtractFloat(doc, ?) = ?"
			args = append(args, key, float64(v))
		case nil:
			query += " AND NOT JSONHas(doc, ?)"
			args = append(args, key)
		default:
			return nil, fmt.Errorf("unsupported filter value for %q: %T", key, value)
		}
	}
	query += " ORDER BY created_at, id"

	rows, err := s.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query campaign_records: %w", err)
	}
	defer rows.Close()

	var out []records.RawRecord
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			// A malformed stored document is skipped, not fatal: one bad
			// row must not take down the whole channel query.
			continue
		}
		out = append(out, records.Normalize(doc))
	}
	return out, rows.Err()
}
