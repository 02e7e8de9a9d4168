package database

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"sales_crm/internal/logger"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes tạo index cho collection dựa trên tag `index` của model.
// Cú pháp tag: "single:1", "unique", "sparse", "order:-1", "compound:<tên>" (phân cách bởi dấu phẩy).
func EnsureIndexes(ctx context.Context, collection *mongo.Collection, model interface{}) error {
	indexes := BuildIndexModels(model)
	if len(indexes) == 0 {
		return nil
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("không thể tạo index cho %s: %w", collection.Name(), err)
	}
	logger.WithCollection(collection.Name()).WithField("count", len(indexes)).Debug("Đã đảm bảo index")
	return nil
}

// BuildIndexModels đọc tag `index` và trả về danh sách index cần tạo (single trước, compound sau)
func BuildIndexModels(model interface{}) []mongo.IndexModel {
	t := reflect.TypeOf(model)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	var (
		result        []mongo.IndexModel
		compoundOrder []string
		compoundKeys  = map[string]bson.D{}
	)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag, ok := field.Tag.Lookup("index")
		if !ok {
			continue
		}
		bsonField := strings.Split(field.Tag.Get("bson"), ",")[0]
		if bsonField == "" || bsonField == "-" {
			continue
		}

		cfg := parseIndexTag(tag)
		order := 1
		if cfg["order"] == "-1" {
			order = -1
		}

		if _, ok := cfg["single"]; ok {
			result = append(result, mongo.IndexModel{
				Keys:    bson.D{{Key: bsonField, Value: order}},
				Options: options.Index().SetName(bsonField + "_single"),
			})
		}
		if _, ok := cfg["unique"]; ok {
			opts := options.Index().SetName(bsonField + "_unique").SetUnique(true)
			if _, sparse := cfg["sparse"]; sparse {
				opts = opts.SetSparse(true)
			}
			result = append(result, mongo.IndexModel{Keys: bson.D{{Key: bsonField, Value: 1}}, Options: opts})
		}
		if group, ok := cfg["compound"]; ok && group != "" {
			if _, seen := compoundKeys[group]; !seen {
				compoundOrder = append(compoundOrder, group)
			}
			compoundKeys[group] = append(compoundKeys[group], bson.E{Key: bsonField, Value: order})
		}
	}

	for _, group := range compoundOrder {
		result = append(result, mongo.IndexModel{
			Keys:    compoundKeys[group],
			Options: options.Index().SetName(group),
		})
	}
	return result
}

// parseIndexTag tách "single:1,compound:x" thành map key -> value
func parseIndexTag(tag string) map[string]string {
	entry := map[string]string{}
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		kv := strings.SplitN(part, ":", 2)
		if len(kv) == 2 {
			entry[kv[0]] = kv[1]
		} else {
			entry[kv[0]] = ""
		}
	}
	return entry
}
