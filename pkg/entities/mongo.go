package entities

import (
	"context"

	"github.com/gamedb/gridview/pkg/datatable"
	"github.com/gamedb/gridview/pkg/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MongoLoader reads entities from a collection with an $in query
type MongoLoader struct {
	Collection string
	IDField    string
}

func (l MongoLoader) Load(ctx context.Context, ids []datatable.ID) (map[string]datatable.Entity, error) {

	field := l.IDField
	if field == "" {
		field = "_id"
	}

	vals := make([]interface{}, 0, len(ids))
	for _, id := range ids {

		// Match 24 char hex string ids against object ids
		if !id.IsNumeric() {
			if oid, err := primitive.ObjectIDFromHex(id.String()); err == nil {
				vals = append(vals, oid)
			}
		}

		vals = append(vals, id.Value())
	}

	docs, err := mongo.FindDocumentsByKeys(ctx, mongo.Collection(l.Collection), field, vals)
	if err != nil {
		return nil, err
	}

	records := make([]map[string]interface{}, 0, len(docs))
	for _, doc := range docs {

		record := map[string]interface{}(doc)
		if oid, ok := record[field].(primitive.ObjectID); ok {
			record[field] = oid.Hex()
		}

		records = append(records, record)
	}

	return keyed(records, field), nil
}
