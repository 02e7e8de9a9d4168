package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Các datastore được hỗ trợ (DB_DRIVER)
const (
	DriverMongoDB  = "mongodb"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
type Configuration struct {
	Environment string `env:"GO_ENV" envDefault:"development"` // development, staging, production
	Address     string `env:"ADDRESS" envDefault:":8080"`      // Địa chỉ server
	JwtSecret   string `env:"JWT_SECRET,required"`             // Bí mật JWT
	JwtTTLHours int    `env:"JWT_TTL_HOURS" envDefault:"24"`   // Thời hạn token (giờ)

	// Datastore
	DBDriver              string `env:"DB_DRIVER" envDefault:"mongodb"`                                // mongodb, postgres, mysql, sqlite
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI" envDefault:"mongodb://localhost:27017"` // URL kết nối MongoDB
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"sales_crm"`                         // Tên cơ sở dữ liệu MongoDB
	SQL_DSN               string `env:"SQL_DSN"`                                                       // DSN cho postgres/mysql/sqlite
	SQL_AutoMigrate       bool   `env:"SQL_AUTO_MIGRATE" envDefault:"true"`                            // Tự tạo bảng khi khởi động

	// HTTP
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// Cache
	NotificationCacheTTL int `env:"NOTIFICATION_CACHE_TTL" envDefault:"60"` // Giây
	RoleCacheTTL         int `env:"ROLE_CACHE_TTL" envDefault:"300"`        // Giây

	// Nhắc chấm công
	AttendanceReminderEnabled  bool `env:"ATTENDANCE_REMINDER_ENABLED" envDefault:"true"`
	AttendanceReminderHour     int  `env:"ATTENDANCE_REMINDER_HOUR" envDefault:"10"`     // Giờ UTC bắt đầu nhắc
	AttendanceReminderInterval int  `env:"ATTENDANCE_REMINDER_INTERVAL" envDefault:"15"` // Phút giữa các lần kiểm tra

	// Dữ liệu ban đầu
	AdminEmail   string `env:"ADMIN_EMAIL"`                           // Tạo admin nếu chưa có (để trống = bỏ qua)
	AdminName    string `env:"ADMIN_NAME" envDefault:"Administrator"` // Tên admin mặc định
	SeedDemoData bool   `env:"SEED_DEMO_DATA" envDefault:"false"`     // Sinh dữ liệu demo khi store còn trống

	// SMTP (để trống SMTP_HOST = không gửi email)
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	SMTPFromName  string `env:"SMTP_FROM_NAME" envDefault:"Sales CRM"`
	SMTPFromEmail string `env:"SMTP_FROM_EMAIL"`
}

// IsProduction cho biết có đang chạy production (ẩn chi tiết lỗi khỏi response)
func (c *Configuration) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// Validate kiểm tra các giá trị phụ thuộc lẫn nhau
func (c *Configuration) Validate() error {
	switch c.DBDriver {
	case DriverMongoDB:
		if c.MongoDB_ConnectionURI == "" || c.MongoDB_DBName == "" {
			return fmt.Errorf("DB_DRIVER=mongodb yêu cầu MONGODB_CONNECTION_URI và MONGODB_DBNAME")
		}
	case DriverPostgres, DriverMySQL, DriverSQLite:
		if c.SQL_DSN == "" {
			return fmt.Errorf("DB_DRIVER=%s yêu cầu SQL_DSN", c.DBDriver)
		}
	default:
		return fmt.Errorf("DB_DRIVER không hợp lệ: %q", c.DBDriver)
	}
	if c.AttendanceReminderHour < 0 || c.AttendanceReminderHour > 23 {
		return fmt.Errorf("ATTENDANCE_REMINDER_HOUR phải nằm trong 0..23")
	}
	return nil
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	goEnv := os.Getenv("GO_ENV")
	if goEnv == "" {
		goEnv = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env, đi ngược lên thư mục cha
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", goEnv))
		}
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig đọc file config/env/<GO_ENV>.env (nếu có) rồi parse biến môi trường.
// Trả về nil nếu cấu hình không hợp lệ.
func NewConfig(files ...string) *Configuration {
	if len(files) == 0 {
		if envPath := getEnvPath(); envPath != "" {
			files = append(files, envPath)
		}
	}

	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			fmt.Printf("Không tìm thấy file env tại %s, dùng biến môi trường hệ thống\n", f)
			continue
		}
		if err := godotenv.Load(f); err != nil {
			fmt.Printf("Không thể load file env tại %s: %v\n", f, err)
			return nil
		}
	}

	cfg, err := LoadFromEnv()
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}
	return cfg
}

// LoadFromEnv parse cấu hình chỉ từ biến môi trường (dùng cho CLI và test)
func LoadFromEnv() (*Configuration, error) {
	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
