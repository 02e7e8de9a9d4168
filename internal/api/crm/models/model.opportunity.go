package models

import "time"

// Opportunity cơ hội bán hàng, có thể bắt nguồn từ một lead
type Opportunity struct {
	ID        int64     `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	OwnerID   int64     `json:"ownerId" bson:"ownerId" index:"single:1"`
	LeadID    *int64    `json:"leadId,omitempty" bson:"leadId,omitempty"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt" index:"single:1"`
}
