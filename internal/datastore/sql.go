package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	attmodels "sales_crm/internal/api/attendance/models"
	authmodels "sales_crm/internal/api/auth/models"
	crmmodels "sales_crm/internal/api/crm/models"
	notifmodels "sales_crm/internal/api/notification/models"
	"sales_crm/internal/common"
	"sales_crm/internal/database"

	"github.com/shopspring/decimal"
)

// SQLStore datastore trên database/sql (postgres, mysql, sqlite).
// Thời gian lưu dạng BIGINT unix milliseconds, tiền lưu NUMERIC/DECIMAL (sqlite: TEXT).
type SQLStore struct {
	db      *sql.DB
	dialect database.Dialect
}

// NewSQLStore bọc một *sql.DB đã mở
func NewSQLStore(db *sql.DB, dialect database.Dialect) *SQLStore {
	return &SQLStore{db: db, dialect: dialect}
}

var _ Store = (*SQLStore)(nil)

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// where gom các điều kiện WHERE cùng tham số
type where struct {
	clauses []string
	args    []interface{}
}

func (w *where) add(clause string, args ...interface{}) {
	w.clauses = append(w.clauses, clause)
	w.args = append(w.args, args...)
}

func (w *where) timeRange(column string, q Query) {
	if !q.From.IsZero() {
		w.add(column+" >= ?", toMillis(q.From))
	}
	if !q.To.IsZero() {
		w.add(column+" <= ?", toMillis(q.To))
	}
}

func (w *where) owner(column string, q Query) {
	if q.OwnerID != nil {
		w.add(column+" = ?", *q.OwnerID)
	}
}

func (w *where) inStrings(column string, values []string) {
	if len(values) == 0 {
		return
	}
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	w.add(column+" IN ("+placeholders(len(values))+")", args...)
}

func (w *where) inInts(column string, values []int64) {
	if len(values) == 0 {
		return
	}
	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}
	w.add(column+" IN ("+placeholders(len(values))+")", args...)
}

func (w *where) String() string {
	if len(w.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.clauses, " AND ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (s *SQLStore) query(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return nil, common.ConvertSQLError(err)
	}
	return rows, nil
}

func (s *SQLStore) FindPipelines(ctx context.Context, q Query) ([]crmmodels.Pipeline, error) {
	w := &where{}
	if q.pipelineTimeField() == ByCreatedAt {
		w.timeRange("created_at", q)
	} else {
		w.timeRange("updated_at", q)
	}
	w.owner("owner_id", q)
	w.inStrings("status", q.Statuses)

	rows, err := s.query(ctx, "SELECT id, opportunity_id, status, owner_id, order_value, created_at, updated_at FROM pipelines"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]crmmodels.Pipeline, 0)
	for rows.Next() {
		var (
			p                    crmmodels.Pipeline
			status               string
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&p.ID, &p.OpportunityID, &status, &p.OwnerID, &p.OrderValue, &createdAt, &updatedAt); err != nil {
			return nil, common.ConvertSQLError(err)
		}
		p.Status = crmmodels.PipelineStatus(status)
		p.CreatedAt, p.UpdatedAt = fromMillis(createdAt), fromMillis(updatedAt)
		out = append(out, p)
	}
	return out, common.ConvertSQLError(rows.Err())
}

func (s *SQLStore) FindQuotations(ctx context.Context, q Query) ([]crmmodels.Quotation, error) {
	w := &where{}
	w.timeRange("updated_at", q)
	w.owner("owner_id", q)
	w.inStrings("status", q.Statuses)

	rows, err := s.query(ctx, "SELECT id, opportunity_id, owner_id, status, total_value, created_at, updated_at FROM quotations"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]crmmodels.Quotation, 0)
	for rows.Next() {
		var (
			v                    crmmodels.Quotation
			status               string
			createdAt, updatedAt int64
		)
		if err := rows.Scan(&v.ID, &v.OpportunityID, &v.OwnerID, &status, &v.TotalValue, &createdAt, &updatedAt); err != nil {
			return nil, common.ConvertSQLError(err)
		}
		v.Status = crmmodels.QuotationStatus(status)
		v.CreatedAt, v.UpdatedAt = fromMillis(createdAt), fromMillis(updatedAt)
		out = append(out, v)
	}
	return out, common.ConvertSQLError(rows.Err())
}

func (s *SQLStore) FindImmediateSales(ctx context.Context, q Query) ([]crmmodels.ImmediateSale, error) {
	w := &where{}
	w.timeRange("sold_at", q)
	w.owner("owner_id", q)

	rows, err := s.query(ctx, "SELECT id, owner_id, customer_name, amount, sold_at FROM immediate_sales"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]crmmodels.ImmediateSale, 0)
	for rows.Next() {
		var (
			v      crmmodels.ImmediateSale
			soldAt int64
		)
		if err := rows.Scan(&v.ID, &v.OwnerID, &v.CustomerName, &v.Amount, &soldAt); err != nil {
			return nil, common.ConvertSQLError(err)
		}
		v.SoldAt = fromMillis(soldAt)
		out = append(out, v)
	}
	return out, common.ConvertSQLError(rows.Err())
}

func (s *SQLStore) FindLeads(ctx context.Context, q Query) ([]crmmodels.Lead, error) {
	w := &where{}
	w.timeRange("created_date", q)
	w.owner("owner_id", q)
	w.inStrings("status", q.Statuses)

	rows, err := s.query(ctx, "SELECT id, name, status, qualification_stage, owner_id, created_date FROM leads"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]crmmodels.Lead, 0)
	for rows.Next() {
		var (
			v       crmmodels.Lead
			status  string
			created int64
		)
		if err := rows.Scan(&v.ID, &v.Name, &status, &v.QualificationStage, &v.OwnerID, &created); err != nil {
			return nil, common.ConvertSQLError(err)
		}
		v.Status = crmmodels.LeadStatus(status)
		v.CreatedDate = fromMillis(created)
		out = append(out, v)
	}
	return out, common.ConvertSQLError(rows.Err())
}

func (s *SQLStore) FindOpportunities(ctx context.Context, q Query) ([]crmmodels.Opportunity, error) {
	w := &where{}
	w.timeRange("created_at", q)
	w.owner("owner_id", q)

	rows, err := s.query(ctx, "SELECT id, name, owner_id, lead_id, created_at FROM opportunities"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]crmmodels.Opportunity, 0)
	for rows.Next() {
		var (
			v       crmmodels.Opportunity
			leadID  sql.NullInt64
			created int64
		)
		if err := rows.Scan(&v.ID, &v.Name, &v.OwnerID, &leadID, &created); err != nil {
			return nil, common.ConvertSQLError(err)
		}
		if leadID.Valid {
			id := leadID.Int64
			v.LeadID = &id
		}
		v.CreatedAt = fromMillis(created)
		out = append(out, v)
	}
	return out, common.ConvertSQLError(rows.Err())
}

func (s *SQLStore) FindAttendances(ctx context.Context, q Query) ([]attmodels.Attendance, error) {
	w := &where{}
	w.timeRange("date", q)
	w.inInts("user_id", q.UserIDs)
	w.inStrings("status", q.Statuses)

	rows, err := s.query(ctx, "SELECT id, user_id, date, status, note FROM attendances"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]attmodels.Attendance, 0)
	for rows.Next() {
		var (
			v      attmodels.Attendance
			date   int64
			status string
			note   sql.NullString
		)
		if err := rows.Scan(&v.ID, &v.UserID, &date, &status, &note); err != nil {
			return nil, common.ConvertSQLError(err)
		}
		v.Date = fromMillis(date)
		v.Status = attmodels.AttendanceStatus(status)
		v.Note = note.String
		out = append(out, v)
	}
	return out, common.ConvertSQLError(rows.Err())
}

func (s *SQLStore) FindUsers(ctx context.Context, f UserFilter) ([]authmodels.User, error) {
	w := &where{}
	w.inInts("id", f.IDs)
	if f.NotificationsEnabled != nil {
		w.add("enable_notifications = ?", *f.NotificationsEnabled)
	}

	rows, err := s.query(ctx, "SELECT id, name, email, role, enable_notifications FROM users"+w.String()+" ORDER BY id", w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]authmodels.User, 0)
	for rows.Next() {
		var u authmodels.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.EnableNotifications); err != nil {
			return nil, common.ConvertSQLError(err)
		}
		out = append(out, u)
	}
	return out, common.ConvertSQLError(rows.Err())
}

func (s *SQLStore) GetUser(ctx context.Context, id int64) (*authmodels.User, error) {
	var u authmodels.User
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind("SELECT id, name, email, role, enable_notifications FROM users WHERE id = ?"), id).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.EnableNotifications)
	if err != nil {
		return nil, common.ConvertSQLError(err)
	}
	return &u, nil
}

func (s *SQLStore) CreateNotification(ctx context.Context, n *notifmodels.Notification) error {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	return s.insert(ctx, "notifications", &n.ID,
		[]string{"user_id", "title", "message", "type", "link", "is_read", "created_at"},
		[]interface{}{n.UserID, n.Title, n.Message, string(n.Type), n.Link, n.Read, toMillis(n.CreatedAt)})
}

func (s *SQLStore) ListNotifications(ctx context.Context, userID int64, unreadOnly bool, limit int) ([]notifmodels.Notification, error) {
	w := &where{}
	w.add("user_id = ?", userID)
	if unreadOnly {
		w.add("is_read = ?", false)
	}
	query := "SELECT id, user_id, title, message, type, link, is_read, created_at FROM notifications" + w.String() + " ORDER BY created_at DESC, id DESC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.query(ctx, query, w.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]notifmodels.Notification, 0)
	for rows.Next() {
		var (
			n       notifmodels.Notification
			typ     string
			link    sql.NullString
			created int64
		)
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &typ, &link, &n.Read, &created); err != nil {
			return nil, common.ConvertSQLError(err)
		}
		n.Type = notifmodels.NotificationType(typ)
		n.Link = link.String
		n.CreatedAt = fromMillis(created)
		out = append(out, n)
	}
	return out, common.ConvertSQLError(rows.Err())
}

func (s *SQLStore) CountUnreadNotifications(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind("SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = ?"), userID, false).Scan(&count)
	return count, common.ConvertSQLError(err)
}

func (s *SQLStore) MarkNotificationRead(ctx context.Context, userID, id int64) error {
	// Không dùng RowsAffected vì MySQL trả 0 khi giá trị không đổi
	var owner int64
	err := s.db.QueryRowContext(ctx, s.dialect.Rebind("SELECT user_id FROM notifications WHERE id = ? AND user_id = ?"), id, userID).Scan(&owner)
	if err != nil {
		return common.ConvertSQLError(err)
	}
	_, err = s.db.ExecContext(ctx, s.dialect.Rebind("UPDATE notifications SET is_read = ? WHERE id = ? AND user_id = ?"), true, id, userID)
	return common.ConvertSQLError(err)
}

func (s *SQLStore) MarkAllNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind("UPDATE notifications SET is_read = ? WHERE user_id = ? AND is_read = ?"), true, userID, false)
	if err != nil {
		return 0, common.ConvertSQLError(err)
	}
	n, err := res.RowsAffected()
	return n, common.ConvertSQLError(err)
}

func (s *SQLStore) DeleteNotification(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind("DELETE FROM notifications WHERE id = ? AND user_id = ?"), id, userID)
	if err != nil {
		return common.ConvertSQLError(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return common.ConvertSQLError(err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *SQLStore) CreateAttendance(ctx context.Context, a *attmodels.Attendance) error {
	return s.insert(ctx, "attendances", &a.ID,
		[]string{"user_id", "date", "status", "note"},
		[]interface{}{a.UserID, toMillis(a.Date), string(a.Status), a.Note})
}

func (s *SQLStore) InsertUser(ctx context.Context, u *authmodels.User) error {
	return s.insert(ctx, "users", &u.ID,
		[]string{"name", "email", "role", "enable_notifications"},
		[]interface{}{u.Name, u.Email, u.Role, u.EnableNotifications})
}

func (s *SQLStore) InsertPipeline(ctx context.Context, p *crmmodels.Pipeline) error {
	return s.insert(ctx, "pipelines", &p.ID,
		[]string{"opportunity_id", "status", "owner_id", "order_value", "created_at", "updated_at"},
		[]interface{}{p.OpportunityID, string(p.Status), p.OwnerID, money(p.OrderValue), toMillis(p.CreatedAt), toMillis(p.UpdatedAt)})
}

func (s *SQLStore) InsertOpportunity(ctx context.Context, o *crmmodels.Opportunity) error {
	var leadID sql.NullInt64
	if o.LeadID != nil {
		leadID = sql.NullInt64{Int64: *o.LeadID, Valid: true}
	}
	return s.insert(ctx, "opportunities", &o.ID,
		[]string{"name", "owner_id", "lead_id", "created_at"},
		[]interface{}{o.Name, o.OwnerID, leadID, toMillis(o.CreatedAt)})
}

func (s *SQLStore) InsertLead(ctx context.Context, l *crmmodels.Lead) error {
	return s.insert(ctx, "leads", &l.ID,
		[]string{"name", "status", "qualification_stage", "owner_id", "created_date"},
		[]interface{}{l.Name, string(l.Status), l.QualificationStage, l.OwnerID, toMillis(l.CreatedDate)})
}

func (s *SQLStore) InsertQuotation(ctx context.Context, q *crmmodels.Quotation) error {
	return s.insert(ctx, "quotations", &q.ID,
		[]string{"opportunity_id", "owner_id", "status", "total_value", "created_at", "updated_at"},
		[]interface{}{q.OpportunityID, q.OwnerID, string(q.Status), money(q.TotalValue), toMillis(q.CreatedAt), toMillis(q.UpdatedAt)})
}

func (s *SQLStore) InsertImmediateSale(ctx context.Context, v *crmmodels.ImmediateSale) error {
	return s.insert(ctx, "immediate_sales", &v.ID,
		[]string{"owner_id", "customer_name", "amount", "sold_at"},
		[]interface{}{v.OwnerID, v.CustomerName, money(v.Amount), toMillis(v.SoldAt)})
}

// money chuẩn hóa về 2 chữ số thập phân, khớp với NUMERIC(18,2)
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// insert thêm một dòng. id == 0: để database cấp ID và ghi lại vào *id.
func (s *SQLStore) insert(ctx context.Context, table string, id *int64, cols []string, args []interface{}) error {
	if *id != 0 {
		cols = append([]string{"id"}, cols...)
		args = append([]interface{}{*id}, args...)
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", table, strings.Join(cols, ", "), placeholders(len(cols)))

	if *id != 0 {
		if _, err := s.db.ExecContext(ctx, s.dialect.Rebind(query), args...); err != nil {
			return common.ConvertSQLError(err)
		}
		if s.dialect.SupportsReturning() {
			// Đẩy sequence lên sau khi chèn ID tường minh
			_, err := s.db.ExecContext(ctx, fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))", table, table))
			return common.ConvertSQLError(err)
		}
		return nil
	}

	if s.dialect.SupportsReturning() {
		return common.ConvertSQLError(s.db.QueryRowContext(ctx, s.dialect.Rebind(query+" RETURNING id"), args...).Scan(id))
	}
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind(query), args...)
	if err != nil {
		return common.ConvertSQLError(err)
	}
	newID, err := res.LastInsertId()
	if err != nil {
		return common.ConvertSQLError(err)
	}
	*id = newID
	return nil
}

// Ping kiểm tra kết nối SQL
func (s *SQLStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return common.Wrap(common.ErrConnection, err, nil)
	}
	return nil
}

// Close đóng kết nối SQL
func (s *SQLStore) Close(ctx context.Context) error {
	return s.db.Close()
}
