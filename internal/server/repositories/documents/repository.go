// Package documents stores schemaless JSON documents addressed by
// collection and id. Get of an unknown document returns common.ErrorNotFound.
package documents

import "context"

type Repository interface {
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	Put(ctx context.Context, collection, id string, doc map[string]any) error
}
