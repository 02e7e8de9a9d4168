package datastore

import (
	"context"
	"sort"
	"sync"
	"time"

	attmodels "sales_crm/internal/api/attendance/models"
	authmodels "sales_crm/internal/api/auth/models"
	crmmodels "sales_crm/internal/api/crm/models"
	notifmodels "sales_crm/internal/api/notification/models"
	"sales_crm/internal/common"
)

// MemoryStore datastore trong bộ nhớ, an toàn khi dùng đồng thời
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64

	users          map[int64]authmodels.User
	pipelines      []crmmodels.Pipeline
	opportunities  []crmmodels.Opportunity
	leads          []crmmodels.Lead
	quotations     []crmmodels.Quotation
	immediateSales []crmmodels.ImmediateSale
	attendances    []attmodels.Attendance
	notifications  map[int64]notifmodels.Notification
}

// NewMemoryStore tạo store rỗng
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:         make(map[int64]authmodels.User),
		notifications: make(map[int64]notifmodels.Notification),
	}
}

var _ Store = (*MemoryStore)(nil)

// assignID cấp ID mới nếu id == 0, luôn giữ nextID lớn hơn mọi ID đã thấy
func (s *MemoryStore) assignID(id *int64) {
	if *id == 0 {
		s.nextID++
		*id = s.nextID
		return
	}
	if *id > s.nextID {
		s.nextID = *id
	}
}

func (s *MemoryStore) FindPipelines(ctx context.Context, q Query) ([]crmmodels.Pipeline, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Wrap(common.ErrDataAccess, err, nil)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	field := q.pipelineTimeField()
	out := make([]crmmodels.Pipeline, 0)
	for _, p := range s.pipelines {
		t := p.UpdatedAt
		if field == ByCreatedAt {
			t = p.CreatedAt
		}
		if q.inRange(t) && q.ownerMatches(p.OwnerID) && q.statusMatches(string(p.Status)) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindQuotations(ctx context.Context, q Query) ([]crmmodels.Quotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Wrap(common.ErrDataAccess, err, nil)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]crmmodels.Quotation, 0)
	for _, v := range s.quotations {
		if q.inRange(v.UpdatedAt) && q.ownerMatches(v.OwnerID) && q.statusMatches(string(v.Status)) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindImmediateSales(ctx context.Context, q Query) ([]crmmodels.ImmediateSale, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Wrap(common.ErrDataAccess, err, nil)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]crmmodels.ImmediateSale, 0)
	for _, v := range s.immediateSales {
		if q.inRange(v.SoldAt) && q.ownerMatches(v.OwnerID) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindLeads(ctx context.Context, q Query) ([]crmmodels.Lead, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Wrap(common.ErrDataAccess, err, nil)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]crmmodels.Lead, 0)
	for _, v := range s.leads {
		if q.inRange(v.CreatedDate) && q.ownerMatches(v.OwnerID) && q.statusMatches(string(v.Status)) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindOpportunities(ctx context.Context, q Query) ([]crmmodels.Opportunity, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Wrap(common.ErrDataAccess, err, nil)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]crmmodels.Opportunity, 0)
	for _, v := range s.opportunities {
		if q.inRange(v.CreatedAt) && q.ownerMatches(v.OwnerID) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindAttendances(ctx context.Context, q Query) ([]attmodels.Attendance, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Wrap(common.ErrDataAccess, err, nil)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]attmodels.Attendance, 0)
	for _, v := range s.attendances {
		if q.inRange(v.Date) && q.userMatches(v.UserID) && q.statusMatches(string(v.Status)) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *MemoryStore) FindUsers(ctx context.Context, f UserFilter) ([]authmodels.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, common.Wrap(common.ErrDataAccess, err, nil)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]authmodels.User, 0, len(s.users))
	for _, u := range s.users {
		if f.matches(u) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id int64) (*authmodels.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) CreateNotification(ctx context.Context, n *notifmodels.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignID(&n.ID)
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	s.notifications[n.ID] = *n
	return nil
}

func (s *MemoryStore) ListNotifications(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]notifmodels.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]notifmodels.Notification, 0)
	for _, n := range s.notifications {
		if n.UserID != userID || (unreadOnly && n.Read) {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) CountUnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return common.ErrNotFound
	}
	n.Read = true
	s.notifications[id] = n
	return nil
}

func (s *MemoryStore) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated int64
	for id, n := range s.notifications {
		if n.UserID == userID && !n.Read {
			n.Read = true
			s.notifications[id] = n
			updated++
		}
	}
	return updated, nil
}

func (s *MemoryStore) DeleteNotification(ctx context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return common.ErrNotFound
	}
	delete(s.notifications, id)
	return nil
}

func (s *MemoryStore) CreateAttendance(ctx context.Context, a *attmodels.Attendance) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignID(&a.ID)
	s.attendances = append(s.attendances, *a)
	return nil
}

func (s *MemoryStore) InsertUser(ctx context.Context, u *authmodels.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignID(&u.ID)
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) InsertPipeline(ctx context.Context, p *crmmodels.Pipeline) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignID(&p.ID)
	s.pipelines = append(s.pipelines, *p)
	return nil
}

func (s *MemoryStore) InsertOpportunity(ctx context.Context, o *crmmodels.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignID(&o.ID)
	s.opportunities = append(s.opportunities, *o)
	return nil
}

func (s *MemoryStore) InsertLead(ctx context.Context, l *crmmodels.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignID(&l.ID)
	s.leads = append(s.leads, *l)
	return nil
}

func (s *MemoryStore) InsertQuotation(ctx context.Context, q *crmmodels.Quotation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignID(&q.ID)
	s.quotations = append(s.quotations, *q)
	return nil
}

func (s *MemoryStore) InsertImmediateSale(ctx context.Context, v *crmmodels.ImmediateSale) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.assignID(&v.ID)
	s.immediateSales = append(s.immediateSales, *v)
	return nil
}

// Ping luôn thành công với store bộ nhớ
func (s *MemoryStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Close không làm gì với store bộ nhớ
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}
