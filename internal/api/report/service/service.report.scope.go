package reportsvc

import (
	authmodels "sales_crm/internal/api/auth/models"
	reportmodels "sales_crm/internal/api/report/models"
	"sales_crm/internal/datastore"
)

// Scope phạm vi dữ liệu của người yêu cầu. OwnerID = nil nghĩa là xem mọi owner.
type Scope struct {
	Requester authmodels.Requester
	OwnerID   *int64
}

// ScopeFor người dùng thường chỉ thấy dữ liệu của chính mình
func ScopeFor(r authmodels.Requester) Scope {
	if r.IsPrivileged() {
		return Scope{Requester: r}
	}
	id := r.ID
	return Scope{Requester: r, OwnerID: &id}
}

// query tạo bộ lọc store theo khoảng thời gian và phạm vi
func (s Scope) query(iv reportmodels.Interval, field datastore.TimeField) datastore.Query {
	return datastore.Query{
		From:      iv.Start,
		To:        iv.End,
		TimeField: field,
		OwnerID:   s.OwnerID,
	}
}
