package vectorstore

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/nestquery/nestquery/pkg/types"
)

// RedisStore implements Store over a RediSearch vector index (FT.SEARCH
// with a KNN clause). Listings are HASH documents carrying a FLOAT32
// embedding under @embedding; the index stores cosine distance, converted
// to similarity here.
type RedisStore struct {
	client    rueidis.Client
	indexName string
	keyPrefix string
}

// RedisConfig holds connection and index parameters.
type RedisConfig struct {
	Addrs     []string
	Username  string
	Password  string
	DB        int
	IndexName string
	KeyPrefix string
}

// NewRedisStore creates a vector store backed by Redis 8+.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if len(cfg.Addrs) == 0 {
		return nil, types.NewValidationError("vector store addrs are required")
	}
	if cfg.IndexName == "" {
		return nil, types.NewValidationError("vector index name is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // FT.SEARCH result parsing expects RESP2 array format
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create redis client: %w", err)
	}

	return &RedisStore{
		client:    client,
		indexName: cfg.IndexName,
		keyPrefix: cfg.KeyPrefix,
	}, nil
}

// QueryNearest implements Store via FT.SEARCH KNN.
func (s *RedisStore) QueryNearest(ctx context.Context, vector []float32, limit int) ([]Hit, error) {
	if len(vector) == 0 {
		return nil, types.NewValidationError("query vector cannot be empty")
	}
	if limit <= 0 {
		return nil, types.NewValidationError("limit must be positive")
	}

	queryStr := fmt.Sprintf("*=>[KNN %d @embedding $BLOB AS __score]", limit)
	cmd := s.client.B().Arbitrary("FT.SEARCH").Args(
		s.indexName, queryStr,
		"RETURN", "1", "__score",
		"SORTBY", "__score",
		"PARAMS", "2", "BLOB", vectorToBytes(vector),
		"LIMIT", "0", strconv.Itoa(limit),
		"DIALECT", "2",
	).Build()

	raw, err := s.client.Do(ctx, cmd).ToArray()
	if err != nil {
		return nil, types.NewProviderError("vector store", err)
	}
	return s.parseKNNResult(raw)
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	cmd := s.client.B().Ping().Build()
	if err := s.client.Do(ctx, cmd).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *RedisStore) Close() error {
	s.client.Close()
	return nil
}

// parseKNNResult decodes the RESP2 reply: [total, key1, fields1, ...].
func (s *RedisStore) parseKNNResult(raw []rueidis.RedisMessage) ([]Hit, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return nil, nil
	}

	hits := make([]Hit, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}

		fields, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		score := 0.0
		for j := 0; j+1 < len(fields); j += 2 {
			name, err := fields[j].ToString()
			if err != nil || name != "__score" {
				continue
			}
			value, err := fields[j+1].ToString()
			if err != nil {
				continue
			}
			if distance, err := strconv.ParseFloat(value, 64); err == nil {
				// cosine distance -> similarity, clamped to [0,1]
				score = math.Max(0, 1.0-distance)
			}
		}

		hits = append(hits, Hit{ListingID: s.stripPrefix(key), Score: score})
	}
	return hits, nil
}

func (s *RedisStore) stripPrefix(key string) string {
	if s.keyPrefix != "" && len(key) > len(s.keyPrefix) && key[:len(s.keyPrefix)] == s.keyPrefix {
		return key[len(s.keyPrefix):]
	}
	return key
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

var _ Store = (*RedisStore)(nil)
