package datastore

import (
	"context"
	"time"

	attmodels "sales_crm/internal/api/attendance/models"
	authmodels "sales_crm/internal/api/auth/models"
	crmmodels "sales_crm/internal/api/crm/models"
	notifmodels "sales_crm/internal/api/notification/models"
	"sales_crm/internal/common"
	"sales_crm/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const collectionCounters = "counters"

// MongoStore datastore trên MongoDB. ID là int64 tăng dần cấp từ collection counters.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewMongoStore tạo store trên database dbName của client
func NewMongoStore(client *mongo.Client, dbName string) *MongoStore {
	return &MongoStore{client: client, db: client.Database(dbName)}
}

var _ Store = (*MongoStore)(nil)

// EnsureIndexes tạo index theo tag của các model
func (s *MongoStore) EnsureIndexes(ctx context.Context) error {
	models := map[string]interface{}{
		CollectionUsers:          authmodels.User{},
		CollectionPipelines:      crmmodels.Pipeline{},
		CollectionOpportunities:  crmmodels.Opportunity{},
		CollectionLeads:          crmmodels.Lead{},
		CollectionQuotations:     crmmodels.Quotation{},
		CollectionImmediateSales: crmmodels.ImmediateSale{},
		CollectionAttendances:    attmodels.Attendance{},
		CollectionNotifications:  notifmodels.Notification{},
	}
	for name, model := range models {
		if err := database.EnsureIndexes(ctx, s.db.Collection(name), model); err != nil {
			return err
		}
	}
	return database.CreateReportAdditionalIndexes(ctx, s.db)
}

// rangeFilter dựng filter $gte/$lte cho một trường thời gian
func rangeFilter(filter bson.M, field string, q Query) {
	cond := bson.M{}
	if !q.From.IsZero() {
		cond["$gte"] = q.From
	}
	if !q.To.IsZero() {
		cond["$lte"] = q.To
	}
	if len(cond) > 0 {
		filter[field] = cond
	}
}

func buildFilter(timeField string, q Query) bson.M {
	filter := bson.M{}
	rangeFilter(filter, timeField, q)
	if q.OwnerID != nil {
		filter["ownerId"] = *q.OwnerID
	}
	if len(q.Statuses) > 0 {
		filter["status"] = bson.M{"$in": q.Statuses}
	}
	return filter
}

// findAll chạy Find và decode toàn bộ kết quả, sắp xếp theo _id
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	if len(opts) == 0 {
		opts = append(opts, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	}
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	if err := cursor.All(ctx, &out); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return out, nil
}

func (s *MongoStore) FindPipelines(ctx context.Context, q Query) ([]crmmodels.Pipeline, error) {
	return findAll[crmmodels.Pipeline](ctx, s.db.Collection(CollectionPipelines), buildFilter(string(q.pipelineTimeField()), q))
}

func (s *MongoStore) FindQuotations(ctx context.Context, q Query) ([]crmmodels.Quotation, error) {
	return findAll[crmmodels.Quotation](ctx, s.db.Collection(CollectionQuotations), buildFilter("updatedAt", q))
}

func (s *MongoStore) FindImmediateSales(ctx context.Context, q Query) ([]crmmodels.ImmediateSale, error) {
	filter := buildFilter("soldAt", q)
	delete(filter, "status")
	return findAll[crmmodels.ImmediateSale](ctx, s.db.Collection(CollectionImmediateSales), filter)
}

func (s *MongoStore) FindLeads(ctx context.Context, q Query) ([]crmmodels.Lead, error) {
	return findAll[crmmodels.Lead](ctx, s.db.Collection(CollectionLeads), buildFilter("createdDate", q))
}

func (s *MongoStore) FindOpportunities(ctx context.Context, q Query) ([]crmmodels.Opportunity, error) {
	filter := buildFilter("createdAt", q)
	delete(filter, "status")
	return findAll[crmmodels.Opportunity](ctx, s.db.Collection(CollectionOpportunities), filter)
}

func (s *MongoStore) FindAttendances(ctx context.Context, q Query) ([]attmodels.Attendance, error) {
	filter := bson.M{}
	rangeFilter(filter, "date", q)
	if len(q.UserIDs) > 0 {
		filter["userId"] = bson.M{"$in": q.UserIDs}
	}
	if len(q.Statuses) > 0 {
		filter["status"] = bson.M{"$in": q.Statuses}
	}
	return findAll[attmodels.Attendance](ctx, s.db.Collection(CollectionAttendances), filter)
}

func (s *MongoStore) FindUsers(ctx context.Context, f UserFilter) ([]authmodels.User, error) {
	filter := bson.M{}
	if len(f.IDs) > 0 {
		filter["_id"] = bson.M{"$in": f.IDs}
	}
	if f.NotificationsEnabled != nil {
		filter["enableNotifications"] = *f.NotificationsEnabled
	}
	return findAll[authmodels.User](ctx, s.db.Collection(CollectionUsers), filter)
}

func (s *MongoStore) GetUser(ctx context.Context, id int64) (*authmodels.User, error) {
	var u authmodels.User
	if err := s.db.Collection(CollectionUsers).FindOne(ctx, bson.M{"_id": id}).Decode(&u); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return &u, nil
}

func (s *MongoStore) CreateNotification(ctx context.Context, n *notifmodels.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return s.insert(ctx, CollectionNotifications, &n.ID, n)
}

func (s *MongoStore) ListNotifications(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]notifmodels.Notification, error) {
	filter := bson.M{"userId": userID}
	if unreadOnly {
		filter["read"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findAll[notifmodels.Notification](ctx, s.db.Collection(CollectionNotifications), filter, opts)
}

func (s *MongoStore) CountUnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	n, err := s.db.Collection(CollectionNotifications).CountDocuments(ctx, bson.M{"userId": userID, "read": false})
	return n, common.ConvertMongoError(err)
}

func (s *MongoStore) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	res, err := s.db.Collection(CollectionNotifications).UpdateOne(ctx,
		bson.M{"_id": id, "userId": userID},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if res.MatchedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *MongoStore) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.Collection(CollectionNotifications).UpdateMany(ctx,
		bson.M{"userId": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return res.ModifiedCount, nil
}

func (s *MongoStore) DeleteNotification(ctx context.Context, userID, id int64) error {
	res, err := s.db.Collection(CollectionNotifications).DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return common.ConvertMongoError(err)
	}
	if res.DeletedCount == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *MongoStore) CreateAttendance(ctx context.Context, a *attmodels.Attendance) error {
	return s.insert(ctx, CollectionAttendances, &a.ID, a)
}

func (s *MongoStore) InsertUser(ctx context.Context, u *authmodels.User) error {
	return s.insert(ctx, CollectionUsers, &u.ID, u)
}

func (s *MongoStore) InsertPipeline(ctx context.Context, p *crmmodels.Pipeline) error {
	return s.insert(ctx, CollectionPipelines, &p.ID, p)
}

func (s *MongoStore) InsertOpportunity(ctx context.Context, o *crmmodels.Opportunity) error {
	return s.insert(ctx, CollectionOpportunities, &o.ID, o)
}

func (s *MongoStore) InsertLead(ctx context.Context, l *crmmodels.Lead) error {
	return s.insert(ctx, CollectionLeads, &l.ID, l)
}

func (s *MongoStore) InsertQuotation(ctx context.Context, q *crmmodels.Quotation) error {
	return s.insert(ctx, CollectionQuotations, &q.ID, q)
}

func (s *MongoStore) InsertImmediateSale(ctx context.Context, v *crmmodels.ImmediateSale) error {
	return s.insert(ctx, CollectionImmediateSales, &v.ID, v)
}

// insert cấp ID (nếu cần) rồi InsertOne; doc phải là con trỏ tới struct chứa *id
func (s *MongoStore) insert(ctx context.Context, collection string, id *int64, doc interface{}) error {
	if *id == 0 {
		next, err := s.nextSequence(ctx, collection)
		if err != nil {
			return err
		}
		*id = next
	} else if err := s.bumpSequence(ctx, collection, *id); err != nil {
		return err
	}
	_, err := s.db.Collection(collection).InsertOne(ctx, doc)
	return common.ConvertMongoError(err)
}

type counterDoc struct {
	ID  string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

func (s *MongoStore) nextSequence(ctx context.Context, name string) (int64, error) {
	var doc counterDoc
	err := s.db.Collection(collectionCounters).FindOneAndUpdate(ctx,
		bson.M{"_id": name},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return doc.Seq, nil
}

// bumpSequence giữ counter >= id khi chèn ID tường minh
func (s *MongoStore) bumpSequence(ctx context.Context, name string, id int64) error {
	_, err := s.db.Collection(collectionCounters).UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$max": bson.M{"seq": id}},
		options.Update().SetUpsert(true))
	return common.ConvertMongoError(err)
}

// Ping kiểm tra kết nối tới primary
func (s *MongoStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, nil); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}

// Close ngắt kết nối client
func (s *MongoStore) Close(ctx context.Context) error {
	return database.CloseMongoClient(ctx, s.client)
}
