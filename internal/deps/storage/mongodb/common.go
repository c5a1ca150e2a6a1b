package mongodb

import (
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
)

func makeBsonDFilters(kv map[string]any) bson.D {
	out := bson.D{}

	for key, value := range kv {
		out = append(out, bson.E{
			Key:   key,
			Value: value,
		})
	}

	return out
}

func newDocument(structType any) any {
	if structType == nil {
		return any(make(map[string]any))
	}

	typ := reflect.TypeOf(structType)

	return reflect.New(typ).Interface()
}
