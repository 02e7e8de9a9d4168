package models

import (
	"fmt"
	"strings"
)

// Role vai trò người dùng dạng tagged variant
type Role int

const (
	RoleStandard Role = iota
	RoleAdmin
	RoleSuperAdmin
)

// Chuỗi role được lưu trong database
const (
	RoleNameAdmin      = "admin"
	RoleNameSuperAdmin = "SuperAdmin"
	RoleNameStandard   = "user"
)

// ParseRole chuyển chuỗi role lưu trong DB sang Role.
// Mọi role không phải admin/SuperAdmin đều là Standard (sales, support, ...).
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return RoleStandard, fmt.Errorf("role rỗng")
	case strings.EqualFold(s, RoleNameAdmin):
		return RoleAdmin, nil
	case strings.EqualFold(s, RoleNameSuperAdmin), strings.EqualFold(s, "super_admin"):
		return RoleSuperAdmin, nil
	default:
		return RoleStandard, nil
	}
}

// String trả về chuỗi role chuẩn
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return RoleNameAdmin
	case RoleSuperAdmin:
		return RoleNameSuperAdmin
	default:
		return RoleNameStandard
	}
}

// IsPrivileged là predicate duy nhất cho quyền admin: xem dữ liệu mọi owner và không nằm trong danh sách chấm công
func IsPrivileged(r Role) bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}
