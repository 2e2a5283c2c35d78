package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeCollection keeps documents as bson.M in insertion order and evaluates
// the operator subset buildFilter emits: equality, $gte, $lte, $regex, $or.
type fakeCollection struct {
	docs     []bson.M
	err      error
	lastFind *options.FindOptions
}

func (f *fakeCollection) Find(_ context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error) {
	if f.err != nil {
		return nil, f.err
	}
	matched := f.match(filter)
	var o *options.FindOptions
	if len(opts) > 0 {
		o = opts[0]
	}
	f.lastFind = o
	if o != nil && o.Sort != nil {
		if s, ok := o.Sort.(bson.D); ok && len(s) > 0 && s[0].Key == "date" {
			sort.SliceStable(matched, func(i, j int) bool {
				return dateOf(matched[i]).After(dateOf(matched[j]))
			})
		}
	}
	if o != nil && o.Skip != nil {
		skip := int(*o.Skip)
		if skip > len(matched) {
			skip = len(matched)
		}
		matched = matched[skip:]
	}
	if o != nil && o.Limit != nil && int(*o.Limit) < len(matched) {
		matched = matched[:*o.Limit]
	}
	docs := make([]interface{}, 0, len(matched))
	for _, d := range matched {
		docs = append(docs, d)
	}
	return mongo.NewCursorFromDocuments(docs, nil, nil)
}

func (f *fakeCollection) FindOne(_ context.Context, filter interface{}, _ ...*options.FindOneOptions) *mongo.SingleResult {
	if f.err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, f.err, nil)
	}
	matched := f.match(filter)
	if len(matched) == 0 {
		return mongo.NewSingleResultFromDocument(bson.D{}, mongo.ErrNoDocuments, nil)
	}
	return mongo.NewSingleResultFromDocument(matched[0], nil, nil)
}

func (f *fakeCollection) CountDocuments(_ context.Context, filter interface{}, _ ...*options.CountOptions) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return int64(len(f.match(filter))), nil
}

func (f *fakeCollection) InsertOne(_ context.Context, document interface{}, _ ...*options.InsertOneOptions) (*mongo.InsertOneResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	raw, err := bson.Marshal(document)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	if _, ok := m["_id"]; !ok {
		m["_id"] = primitive.NewObjectID()
	}
	f.docs = append(f.docs, m)
	return &mongo.InsertOneResult{InsertedID: m["_id"]}, nil
}

func (f *fakeCollection) UpdateOne(_ context.Context, filter interface{}, update interface{}, _ ...*options.UpdateOptions) (*mongo.UpdateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	set, _ := update.(bson.M)["$set"].(bson.M)
	for _, d := range f.docs {
		if matches(d, filter.(bson.M)) {
			for k, v := range set {
				d[k] = v
			}
			return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
		}
	}
	return &mongo.UpdateResult{}, nil
}

func (f *fakeCollection) match(filter interface{}) []bson.M {
	out := []bson.M{}
	for _, d := range f.docs {
		if matches(d, filter.(bson.M)) {
			out = append(out, d)
		}
	}
	return out
}

func matches(doc, filter bson.M) bool {
	for key, want := range filter {
		if key == "$or" {
			hit := false
			for _, sub := range want.(bson.A) {
				if matches(doc, sub.(bson.M)) {
					hit = true
					break
				}
			}
			if !hit {
				return false
			}
			continue
		}
		cond, isOp := want.(bson.M)
		if !isOp {
			if fmt.Sprint(doc[key]) != fmt.Sprint(want) {
				return false
			}
			continue
		}
		if pattern, ok := cond["$regex"].(string); ok {
			if cond["$options"] == "i" {
				pattern = "(?i)" + pattern
			}
			s, _ := doc[key].(string)
			if !regexp.MustCompile(pattern).MatchString(s) {
				return false
			}
			continue
		}
		d := dateOf(doc)
		if v, ok := cond["$gte"].(time.Time); ok && d.Before(v) {
			return false
		}
		if v, ok := cond["$lte"].(time.Time); ok && d.After(v) {
			return false
		}
	}
	return true
}

func dateOf(doc bson.M) time.Time {
	switch v := doc["date"].(type) {
	case primitive.DateTime:
		return v.Time().UTC()
	case time.Time:
		return v
	}
	return time.Time{}
}
