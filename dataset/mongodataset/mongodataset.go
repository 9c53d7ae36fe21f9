/*
Package mongodataset reads datasets from and writes them to
MongoDB collections, one document per sample.
*/
package mongodataset

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/pbanos/orchard/dataset"
	"github.com/pbanos/orchard/dataset/csv"
	"github.com/pbanos/orchard/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

const (
	// DefaultCollection is the collection used when none is given.
	DefaultCollection = "samples"
)

/*
Collection wraps a MongoDB collection holding samples.
*/
type Collection struct {
	session *mgo.Session
	name    string
}

/*
Dial takes a MongoDB URL and a collection name and returns a Collection on the
default database of the URL or an error if the connection fails. When the
name is empty DefaultCollection is used.
*/
func Dial(url, collection string) (*Collection, error) {
	session, err := mgo.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s: %v", url, err)
	}
	return Open(session, collection), nil
}

/*
Open takes a MongoDB session and a collection name and returns a Collection
on the default database of the session.
*/
func Open(session *mgo.Session, collection string) *Collection {
	if collection == "" {
		collection = DefaultCollection
	}
	return &Collection{session, collection}
}

// Close closes the session of the collection.
func (c *Collection) Close() {
	c.session.Close()
}

/*
ReadDataset takes a context, a slice of features and a DatasetGenerator and
returns a dataset with every document of the collection or an error.

Only the fields for the given features are projected. When the features
slice is empty, every field other than _id found on the documents becomes a
feature, sorted by name, with its kind inferred as csv.ReadDataset does.
Documents missing a field are rejected.
*/
func (c *Collection) ReadDataset(ctx context.Context, features []feature.Feature, dg csv.DatasetGenerator) (dataset.Dataset, error) {
	for _, f := range features {
		if err := validFieldName(f.Name()); err != nil {
			return nil, err
		}
	}
	var projection bson.M
	if len(features) > 0 {
		projection = bson.M{"_id": 0}
		for _, f := range features {
			projection[f.Name()] = 1
		}
	}
	iter := c.collection().Find(nil).Select(projection).Iter()
	defer iter.Close()
	var docs []bson.M
	var doc bson.M
	for iter.Next(&doc) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		doc = nil
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("reading collection %s: %v", c.name, err)
	}
	header := feature.Names(features)
	if len(header) == 0 {
		header = fieldNames(docs)
	}
	records := make([][]string, 0, len(docs))
	for i, d := range docs {
		record := make([]string, len(header))
		for j, name := range header {
			v, ok := d[name]
			if !ok || v == nil {
				return nil, fmt.Errorf("document %d of collection %s has no value for %s", i+1, c.name, name)
			}
			record[j] = fieldString(v)
		}
		records = append(records, record)
	}
	return csv.FromRecords(header, records, features, dg)
}

/*
Write takes a context and a dataset and inserts a document per sample of the
dataset on the collection. It returns the number of inserted documents and an
error if the insertion failed.
*/
func (c *Collection) Write(ctx context.Context, ds dataset.Dataset) (int, error) {
	features := ds.Features()
	for _, f := range features {
		if err := validFieldName(f.Name()); err != nil {
			return 0, err
		}
	}
	samples, err := ds.Samples(ctx)
	if err != nil {
		return 0, err
	}
	docs := make([]interface{}, 0, len(samples))
	for _, s := range samples {
		doc := make(bson.M, len(features))
		for _, f := range features {
			value, err := s.ValueFor(ctx, f)
			if err != nil {
				return 0, err
			}
			if value != nil {
				doc[f.Name()] = value
			}
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return 0, nil
	}
	err = c.collection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(docs), nil
}

func (c *Collection) collection() *mgo.Collection {
	return c.session.DB("").C(c.name)
}

func validFieldName(name string) error {
	if name == "_id" {
		return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
	}
	if strings.ContainsAny(name, ".$") {
		return fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", name, ".", "$")
	}
	return nil
}

func fieldNames(docs []bson.M) []string {
	seen := make(map[string]bool)
	var names []string
	for _, d := range docs {
		for k := range d {
			if k != "_id" && !seen[k] {
				seen[k] = true
				names = append(names, k)
			}
		}
	}
	sort.Strings(names)
	return names
}

func fieldString(v interface{}) string {
	switch vv := v.(type) {
	case int:
		return strconv.Itoa(vv)
	case int64:
		return strconv.FormatInt(vv, 10)
	case float64:
		return feature.Format(vv)
	case bool:
		return strconv.FormatBool(vv)
	}
	return fmt.Sprintf("%v", v)
}
