// Package registry cung cấp registry generic, thread-safe, dùng để tra cứu các thành phần theo tên
// (ví dụ: bộ sinh báo cáo theo reportType).
package registry

import (
	"fmt"
	"sort"
	"sync"

	"sales_crm/internal/common"
)

// Registry quản lý các item theo tên. An toàn khi dùng đồng thời.
//
// Example:
//
//	generators := NewRegistry[Generator]()
//	generators.Register("sales", salesGenerator)
//	if g, ok := generators.Get("sales"); ok {
//	    ...
//	}
type Registry[T any] struct {
	items map[string]T
	mu    sync.RWMutex
}

// NewRegistry tạo registry rỗng
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{
		items: make(map[string]T),
	}
}

// Register đăng ký item; ghi đè nếu tên đã tồn tại.
// isNew = false khi ghi đè item cũ.
func (r *Registry[T]) Register(name string, item T) (isNew bool, err error) {
	if name == "" {
		return false, fmt.Errorf("name cannot be empty: %w", common.ErrInvalidRequest)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, exists := r.items[name]
	r.items[name] = item
	return !exists, nil
}

// MustRegister như Register nhưng panic khi lỗi; dùng khi khởi tạo
func (r *Registry[T]) MustRegister(name string, item T) {
	if _, err := r.Register(name, item); err != nil {
		panic(err)
	}
}

// Get lấy item theo tên
func (r *Registry[T]) Get(name string) (item T, exists bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, exists = r.items[name]
	return item, exists
}

// Keys trả về danh sách tên đã đăng ký, đã sắp xếp
func (r *Registry[T]) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.items))
	for k := range r.items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clear xóa một item, gọi cleanup trước khi xóa nếu có
func (r *Registry[T]) Clear(name string, cleanup func(T) error) (deleted bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, exists := r.items[name]
	if !exists {
		return false, nil
	}
	if cleanup != nil {
		if err := cleanup(item); err != nil {
			return false, fmt.Errorf("cleanup %s: %w", name, err)
		}
	}
	delete(r.items, name)
	return true, nil
}
