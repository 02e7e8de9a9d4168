package models

import "time"

// LeadStatus trạng thái xử lý lead
type LeadStatus string

const (
	LeadNew         LeadStatus = "NEW"
	LeadContacted   LeadStatus = "CONTACTED"
	LeadQualified   LeadStatus = "QUALIFIED"
	LeadUnqualified LeadStatus = "UNQUALIFIED"
	LeadConverted   LeadStatus = "CONVERTED"
)

// IsQualified lead đã qua bước đánh giá (đủ điều kiện hoặc đã chuyển đổi)
func (s LeadStatus) IsQualified() bool {
	return s == LeadQualified || s == LeadConverted
}

// Lead khách hàng tiềm năng đang được đánh giá
type Lead struct {
	ID                 int64      `json:"id" bson:"_id"`
	Name               string     `json:"name" bson:"name"`
	Status             LeadStatus `json:"status" bson:"status"`
	QualificationStage string     `json:"qualificationStage" bson:"qualificationStage"`
	OwnerID            int64      `json:"ownerId" bson:"ownerId" index:"single:1"`
	CreatedDate        time.Time  `json:"createdDate" bson:"createdDate" index:"single:1"`
}
