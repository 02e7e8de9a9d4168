// Package models - người dùng, vai trò và JWT claims thuộc domain auth.
package models

// User người dùng hệ thống. Role lưu dạng chuỗi, dùng ParseRole để đọc.
type User struct {
	ID                  int64  `json:"id" bson:"_id"`
	Name                string `json:"name" bson:"name"`
	Email               string `json:"email" bson:"email" index:"unique,sparse"`
	Role                string `json:"role" bson:"role"`
	EnableNotifications bool   `json:"enableNotifications" bson:"enableNotifications" index:"single:1"`
}

// ParsedRole trả về vai trò đã parse, lỗi nếu chuỗi role rỗng
func (u User) ParsedRole() (Role, error) {
	return ParseRole(u.Role)
}
