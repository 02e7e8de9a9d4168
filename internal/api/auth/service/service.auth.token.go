// Package authsvc xác thực người gọi: ký / kiểm tra JWT và đọc vai trò từ bản ghi user (có cache).
package authsvc

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	authmodels "sales_crm/internal/api/auth/models"
	"sales_crm/internal/common"
	"sales_crm/internal/datastore"
	"sales_crm/internal/logger"
	"sales_crm/internal/utility"

	"github.com/dgrijalva/jwt-go"
	"github.com/sirupsen/logrus"
)

const roleCacheKeyPrefix = "auth:user:"

// TokenService ký và giải mã JWT, tra vai trò của user
type TokenService struct {
	secret []byte
	ttl    time.Duration
	users  datastore.UserReader
	cache  *utility.Cache
	now    func() time.Time
}

// NewTokenService tạo TokenService. roleCacheTTL <= 0 sẽ tắt cache.
func NewTokenService(secret string, ttl time.Duration, users datastore.UserReader, roleCacheTTL time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		users:  users,
		now:    time.Now,
	}
	if roleCacheTTL > 0 {
		s.cache = utility.NewCache(roleCacheTTL, 2*roleCacheTTL)
	}
	return s
}

// Sign tạo JWT cho user (HS256)
func (s *TokenService) Sign(user authmodels.User) (string, error) {
	now := s.now()
	claims := authmodels.JwtToken{
		UserID: user.ID,
		Role:   user.Role,
		StandardClaims: jwt.StandardClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(s.ttl).Unix(),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", common.Wrap(common.ErrInternal, err, nil)
	}
	return token, nil
}

// Parse kiểm tra chữ ký, thuật toán và hạn của token
func (s *TokenService) Parse(raw string) (*authmodels.JwtToken, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, common.ErrTokenMissing
	}
	claims := &authmodels.JwtToken{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		var ve *jwt.ValidationError
		if errors.As(err, &ve) && ve.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, common.ErrTokenExpired
		}
		return nil, common.Wrap(common.ErrTokenInvalid, err, nil)
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, common.ErrTokenInvalid
	}
	return claims, nil
}

// ResolveRequester giải mã token rồi đọc vai trò từ bản ghi user.
// Vai trò trong token không được tin; user bị xóa -> ErrUserNotFound.
func (s *TokenService) ResolveRequester(ctx context.Context, raw string) (authmodels.Requester, error) {
	claims, err := s.Parse(raw)
	if err != nil {
		return authmodels.Requester{}, err
	}
	user, err := s.lookupUser(ctx, claims.UserID)
	if err != nil {
		return authmodels.Requester{}, err
	}
	role, err := user.ParsedRole()
	if err != nil {
		logger.WithContext(ctx).WithFields(logrus.Fields{
			"user_id": user.ID,
		}).Warn("❌ [AUTH] User có role rỗng")
		return authmodels.Requester{}, common.Wrap(common.ErrUnknownRole, err, nil)
	}
	return authmodels.Requester{ID: user.ID, Role: role}, nil
}

// Invalidate xóa user khỏi cache (gọi khi đổi role)
func (s *TokenService) Invalidate(userID int64) {
	if s.cache != nil {
		s.cache.Delete(roleCacheKey(userID))
	}
}

// Close dừng goroutine dọn cache
func (s *TokenService) Close() {
	if s.cache != nil {
		s.cache.Stop()
	}
}

func roleCacheKey(userID int64) string {
	return roleCacheKeyPrefix + strconv.FormatInt(userID, 10)
}

func (s *TokenService) lookupUser(ctx context.Context, id int64) (*authmodels.User, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(roleCacheKey(id)); ok {
			u := cached.(authmodels.User)
			return &u, nil
		}
	}
	user, err := s.users.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.Wrap(common.ErrDataAccess, err, nil)
	}
	if s.cache != nil {
		s.cache.Set(roleCacheKey(id), *user)
	}
	return user, nil
}
