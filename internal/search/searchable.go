// Package search keeps an external full-text index in step with the relational store.
//
// The relational store is authoritative. The index only holds the allowlisted fields of
// Searchable entities, keyed by primary key, and query results are re-resolved against the
// database before they reach a caller.
package search

import (
	"context"
	"fmt"
	"reflect"
	"sync"

	"gorm.io/gorm/schema"
)

// Searchable is implemented by entities whose fields are projected into the index.
// TableName doubles as the index name.
type Searchable interface {
	TableName() string
	SearchableFields() []string
}

var schemaCache sync.Map

func parse(s Searchable) (*schema.Schema, reflect.Value, error) {
	sch, err := schema.Parse(s, &schemaCache, schema.NamingStrategy{})
	if err != nil {
		return nil, reflect.Value{}, err
	}
	rv := reflect.Indirect(reflect.ValueOf(s))
	if sch.PrioritizedPrimaryField == nil {
		return nil, reflect.Value{}, fmt.Errorf("%s: no primary key", s.TableName())
	}
	return sch, rv, nil
}

func identity(s Searchable, sch *schema.Schema, rv reflect.Value) (uint, error) {
	raw, zero := sch.PrioritizedPrimaryField.ValueOf(context.Background(), rv)
	if zero {
		return 0, fmt.Errorf("%s: entity has no identity", s.TableName())
	}
	return toUint(raw)
}

// Identity returns the primary key of s.
func Identity(s Searchable) (uint, error) {
	sch, rv, err := parse(s)
	if err != nil {
		return 0, err
	}
	return identity(s, sch, rv)
}

// Document projects the allowlisted fields of s, keyed by column name.
func Document(s Searchable) (uint, map[string]any, error) {
	sch, rv, err := parse(s)
	if err != nil {
		return 0, nil, err
	}
	id, err := identity(s, sch, rv)
	if err != nil {
		return 0, nil, err
	}

	fields := s.SearchableFields()
	doc := make(map[string]any, len(fields))
	for _, name := range fields {
		f := sch.LookUpField(name)
		if f == nil {
			return 0, nil, fmt.Errorf("%s: unknown searchable field %q", s.TableName(), name)
		}
		v, _ := f.ValueOf(context.Background(), rv)
		doc[f.DBName] = v
	}
	return id, doc, nil
}

func toUint(v any) (uint, error) {
	switch id := v.(type) {
	case uint:
		return id, nil
	case uint32:
		return uint(id), nil
	case uint64:
		return uint(id), nil
	case int:
		return uint(id), nil
	case int32:
		return uint(id), nil
	case int64:
		return uint(id), nil
	default:
		return 0, fmt.Errorf("unsupported primary key type %T", v)
	}
}
