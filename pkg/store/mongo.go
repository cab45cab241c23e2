package store

import (
	"context"
	"errors"
	"maps"
	"slices"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo is a Repository over a collection. Documents are keyed by the pk
// field rather than _id, and are converted to T through their JSON form so
// the JSON names of T are the document keys.
type Mongo[T any] struct {
	coll  *mongo.Collection
	known map[string]struct{}
	newID func() string
	pk    string
}

// NewMongo creates a repository for coll. pk is the primary key field;
// records created without one get a uuid.
func NewMongo[T any](coll *mongo.Collection, pk string) *Mongo[T] {
	return &Mongo[T]{
		coll:  coll,
		known: fieldSet(Fields[T]()),
		newID: uuid.NewString,
		pk:    pk,
	}
}

// WithIDGenerator returns a copy of the repository that keys new records
// with fn instead of a uuid.
func (m *Mongo[T]) WithIDGenerator(fn func() string) *Mongo[T] {
	cp := *m
	cp.newID = fn
	return &cp
}

var noObjectID = bson.M{"_id": 0}

func (m *Mongo[T]) Find(ctx context.Context, lookup Lookup) (T, error) {
	var zero T
	if len(lookup) == 0 {
		return zero, ErrEmptyLookup
	}
	if err := checkFields(m.known, slices.Collect(maps.Keys(lookup))...); err != nil {
		return zero, err
	}

	var doc bson.M
	err := m.coll.FindOne(ctx, bson.M(Normalize(lookup)), options.FindOne().SetProjection(noObjectID)).Decode(&doc)
	if err != nil {
		return zero, mapMongoError(err)
	}
	return Decode[T](doc)
}

func (m *Mongo[T]) List(ctx context.Context, q Query) ([]T, int, error) {
	if err := checkFields(m.known, slices.Collect(maps.Keys(q.Where))...); err != nil {
		return nil, 0, err
	}

	filter := bson.M(Normalize(q.Where))
	if filter == nil {
		filter = bson.M{}
	}
	total, err := m.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, mapMongoError(err)
	}

	opts := options.Find().SetProjection(noObjectID)
	if len(q.OrderBy) > 0 {
		sort := make(bson.D, 0, len(q.OrderBy))
		for _, o := range q.OrderBy {
			f, desc := Order(o)
			if err := checkFields(m.known, f); err != nil {
				return nil, 0, err
			}
			dir := 1
			if desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: f, Value: dir})
		}
		opts.SetSort(sort)
	}
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	if q.Offset > 0 {
		opts.SetSkip(int64(q.Offset))
	}

	cur, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, mapMongoError(err)
	}
	var docs []bson.M
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, mapMongoError(err)
	}

	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		rec, err := Decode[T](doc)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, int(total), nil
}

func (m *Mongo[T]) Create(ctx context.Context, fields map[string]any) (T, error) {
	var zero T
	if err := checkFields(m.known, slices.Collect(maps.Keys(fields))...); err != nil {
		return zero, err
	}

	doc := Normalize(fields)
	if v, ok := doc[m.pk]; !ok || v == nil || v == "" {
		doc[m.pk] = m.newID()
	}
	if _, err := m.coll.InsertOne(ctx, bson.M(doc)); err != nil {
		return zero, mapMongoError(err)
	}
	return Decode[T](doc)
}

func (m *Mongo[T]) Update(ctx context.Context, pk string, fields map[string]any) (T, error) {
	var zero T
	set := Normalize(fields)
	delete(set, m.pk)
	if len(set) == 0 {
		return m.Find(ctx, Lookup{m.pk: pk})
	}
	if err := checkFields(m.known, slices.Collect(maps.Keys(set))...); err != nil {
		return zero, err
	}

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(noObjectID)

	var doc bson.M
	err := m.coll.FindOneAndUpdate(ctx, bson.M{m.pk: pk}, bson.M{"$set": bson.M(set)}, opts).Decode(&doc)
	if err != nil {
		return zero, mapMongoError(err)
	}
	return Decode[T](doc)
}

func (m *Mongo[T]) Delete(ctx context.Context, pk string) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{m.pk: pk})
	if err != nil {
		return mapMongoError(err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func mapMongoError(err error) error {
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return ErrNotFound
	case mongo.IsDuplicateKeyError(err):
		return errors.Join(ErrConflict, err)
	default:
		return err
	}
}
