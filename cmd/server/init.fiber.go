package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"sales_crm/internal/api/middleware"
	apirouter "sales_crm/internal/api/router"
	"sales_crm/internal/common"
	"sales_crm/internal/global"
	"sales_crm/internal/logger"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/google/uuid"
)

// healthPath bỏ qua rate limit và recover
const healthPath = "/api/v1/system/health"

// errorHandler trả lỗi theo format chuẩn {error, code, details?}
func errorHandler(c fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		errorCode := common.ErrCodeInternalServer.Code
		switch fe.Code {
		case fiber.StatusBadRequest:
			errorCode = common.ErrCodeValidationInput.Code
		case fiber.StatusUnauthorized:
			errorCode = common.ErrCodeAuthToken.Code
		case fiber.StatusForbidden:
			errorCode = common.ErrCodeAuthRole.Code
		case fiber.StatusNotFound, fiber.StatusMethodNotAllowed:
			errorCode = common.ErrCodeValidationInput.Code
		}
		if fe.Code >= fiber.StatusInternalServerError {
			logger.WithRequest(c).WithField("code", fe.Code).Error(fe.Message)
		}
		return middleware.JSONResponse(c, fe.Code, fiber.Map{
			"error": fe.Message,
			"code":  errorCode,
		})
	}

	logger.WithRequest(c).WithError(err).Error("Request error")
	status, body := middleware.ErrorBody(err)
	return middleware.JSONResponse(c, status, body)
}

// InitFiberApp khởi tạo ứng dụng Fiber với các middleware cần thiết
func InitFiberApp(auth fiber.Handler, regs ...apirouter.RegisterFunc) (*fiber.App, error) {
	cfg := global.ServerConfig
	log := logger.GetAppLogger()

	app := fiber.New(fiber.Config{
		AppName:      "Sales CRM API",
		ServerHeader: "Sales CRM API",
		BodyLimit:    1 * 1024 * 1024,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: errorHandler,
	})

	// 1. Request ID
	app.Use(requestid.New(requestid.Config{
		Header:    "X-Request-ID",
		Generator: uuid.NewString,
	}))

	// 2. CORS - đặt sớm để xử lý preflight
	allowOrigins := []string{"*"}
	allowCredentials := false
	if cfg.CORS_Origins != "*" {
		allowOrigins = allowOrigins[:0]
		for _, origin := range strings.Split(cfg.CORS_Origins, ",") {
			if o := strings.TrimSpace(origin); o != "" {
				allowOrigins = append(allowOrigins, o)
			}
		}
		allowCredentials = cfg.CORS_AllowCredentials
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		AllowCredentials: allowCredentials,
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		MaxAge:           24 * 60 * 60,
	}))

	// 3. Security headers
	app.Use(func(c fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		return c.Next()
	})

	// 4. Rate limit theo IP
	if cfg.RateLimit_Enabled && cfg.RateLimit_Max > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        cfg.RateLimit_Max,
			Expiration: time.Duration(cfg.RateLimit_Window) * time.Second,
			KeyGenerator: func(c fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c fiber.Ctx) error {
				return middleware.JSONResponse(c, fiber.StatusTooManyRequests, fiber.Map{
					"error": common.MsgTooManyRequests,
					"code":  common.ErrCodeValidationInput.Code,
				})
			},
			Next: func(c fiber.Ctx) bool {
				return c.Path() == healthPath || c.Method() == fiber.MethodOptions
			},
		}))
		log.Infof("Rate limiting enabled: %d requests per %d seconds", cfg.RateLimit_Max, cfg.RateLimit_Window)
	} else {
		log.Info("Rate limiting disabled")
	}

	// 5. Recover
	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(c fiber.Ctx, e interface{}) {
			logger.WithRequest(c).WithField("panic", fmt.Sprintf("%v", e)).Error("Panic recovered")
		},
	}))

	if err := apirouter.SetupRoutes(app, auth, regs...); err != nil {
		return nil, err
	}
	return app, nil
}
