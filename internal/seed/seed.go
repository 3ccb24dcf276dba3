// Package seed writes the organization profile to the profile collection.
// The profile is loaded with resolution order:
// 1. User override: the path given to Load
// 2. Embedded default: internal/seed/about.yaml
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/ternarybob/arbor"
	"gopkg.in/yaml.v3"

	"github.com/ternarybob/secretary/internal/interfaces"
	"github.com/ternarybob/secretary/internal/models"
)

//go:embed about.yaml
var defaultProfile []byte

// LastUpdatedField is stamped on the profile at write time
const LastUpdatedField = "last_updated"

// Load reads the profile from path, or the embedded default when path is empty
func Load(path string) (models.Record, error) {
	data := defaultProfile
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read profile %s: %w", path, err)
		}
	}
	return Decode(data)
}

// Decode parses a YAML mapping into a record, keeping key order
func Decode(data []byte) (models.Record, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}
	if len(doc.Content) == 0 {
		return nil, fmt.Errorf("profile is empty")
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("profile must be a mapping, got line %d", root.Line)
	}

	v, err := nodeValue(root)
	if err != nil {
		return nil, err
	}
	return v.AsRecord(), nil
}

func nodeValue(node *yaml.Node) (models.Value, error) {
	switch node.Kind {
	case yaml.AliasNode:
		return nodeValue(node.Alias)

	case yaml.MappingNode:
		record := models.NewRecord()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			v, err := nodeValue(node.Content[i+1])
			if err != nil {
				return models.Null(), fmt.Errorf("%s: %w", key, err)
			}
			record.Set(key, v)
		}
		return models.Nested(record), nil

	case yaml.SequenceNode:
		items := make([]models.Value, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := nodeValue(child)
			if err != nil {
				return models.Null(), err
			}
			items = append(items, v)
		}
		return models.Sequence(items...), nil

	case yaml.ScalarNode:
		return scalarValue(node)
	}

	return models.Null(), fmt.Errorf("unsupported YAML node at line %d", node.Line)
}

func scalarValue(node *yaml.Node) (models.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return models.Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return models.Null(), err
		}
		return models.Bool(b), nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return models.Null(), err
		}
		return models.Int(n), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return models.Null(), err
		}
		return models.Float(f), nil
	case "!!timestamp":
		var t time.Time
		if err := node.Decode(&t); err != nil {
			return models.Null(), err
		}
		return models.Timestamp(t), nil
	default:
		return models.String(node.Value), nil
	}
}

// Seeder replaces the contents of the profile collection
type Seeder struct {
	storage    interfaces.DocumentStorage
	collection string
	now        func() time.Time
	logger     arbor.ILogger
}

// NewSeeder creates a seeder for collection
func NewSeeder(storage interfaces.DocumentStorage, collection string, logger arbor.ILogger) *Seeder {
	return &Seeder{
		storage:    storage,
		collection: collection,
		now:        time.Now,
		logger:     logger,
	}
}

// Seed clears the collection and inserts profile stamped with last_updated.
// It returns the identifier of the inserted record.
func (s *Seeder) Seed(ctx context.Context, profile models.Record) (string, error) {
	record := append(models.Record(nil), profile...)
	record.Set(LastUpdatedField, models.Timestamp(s.now()))

	deleted, err := s.storage.DeleteAll(ctx, s.collection)
	if err != nil {
		return "", fmt.Errorf("failed to clear %s: %w", s.collection, err)
	}

	id, err := s.storage.Insert(ctx, s.collection, record)
	if err != nil {
		return "", fmt.Errorf("failed to insert profile into %s: %w", s.collection, err)
	}

	s.logger.Info().
		Str("collection", s.collection).
		Int64("cleared", deleted).
		Str("id", id).
		Msg("Profile collection initialized")

	return id, nil
}
