// Package database - Index bổ sung cho các truy vấn báo cáo mà model tags không diễn đạt được
// (compound theo status + thời gian, partial index cho thông báo chưa đọc).
package database

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CreateReportAdditionalIndexes tạo các index bổ sung. Gọi sau EnsureIndexes cho từng collection.
func CreateReportAdditionalIndexes(ctx context.Context, db *mongo.Database) error {
	// pipelines: (status, updatedAt) cho truy vấn deal đã chốt trong forecast
	if _, err := db.Collection("pipelines").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "updatedAt", Value: 1},
		},
		Options: options.Index().SetName("pipeline_status_updated"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// notifications: chỉ index các bản ghi chưa đọc cho unread-count
	if _, err := db.Collection("notifications").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName("notification_user_unread").
			SetPartialFilterExpression(bson.M{"read": false}),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

// isIndexExistsError index đã tồn tại với cấu hình khác: bỏ qua
func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}
