package models

import "github.com/dgrijalva/jwt-go"

// JwtToken claims được mã hóa trong JWT. Role trong token chỉ để tham khảo,
// quyền thực tế luôn đọc lại từ bản ghi user.
type JwtToken struct {
	UserID int64  `json:"userId"`
	Role   string `json:"role,omitempty"`
	jwt.StandardClaims
}

// Requester danh tính đã xác thực của người gọi
type Requester struct {
	ID   int64 `json:"id"`
	Role Role  `json:"role"`
}

// IsPrivileged người gọi có quyền admin hay không
func (r Requester) IsPrivileged() bool {
	return IsPrivileged(r.Role)
}
