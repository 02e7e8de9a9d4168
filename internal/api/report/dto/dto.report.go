// Package reportdto chứa DTO cho domain Report.
package reportdto

// ReportQuery tham số sinh báo cáo, dùng chung cho GET (path + query) và POST (body).
// startDate/endDate nhận YYYY-MM-DD hoặc RFC 3339 và phải đi cùng nhau.
type ReportQuery struct {
	ReportType string `json:"reportType" query:"reportType" validate:"required,report_type"`
	Period     string `json:"period" query:"period" validate:"omitempty,report_period"`
	StartDate  string `json:"startDate" query:"startDate" validate:"omitempty,report_date"`
	EndDate    string `json:"endDate" query:"endDate" validate:"omitempty,report_date"`
}

// ReportRange khoảng thời gian thực tế đã dùng
type ReportRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReportResponse body thành công
type ReportResponse struct {
	Success     bool        `json:"success"`
	ReportType  string      `json:"reportType"`
	Period      string      `json:"period"`
	Range       ReportRange `json:"range"`
	Data        interface{} `json:"data"`
	GeneratedAt string      `json:"generatedAt"`
}

// ReportTypesResponse danh sách loại báo cáo hỗ trợ
type ReportTypesResponse struct {
	Success     bool     `json:"success"`
	ReportTypes []string `json:"reportTypes"`
	Periods     []string `json:"periods"`
}
