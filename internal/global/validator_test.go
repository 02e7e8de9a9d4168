package global

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportQuery struct {
	ReportType string `validate:"required,report_type"`
	Period     string `validate:"omitempty,report_period"`
	StartDate  string `validate:"omitempty,report_date"`
	Note       string `validate:"omitempty,no_xss"`
}

func TestInitValidator(t *testing.T) {
	InitValidator()
	require.NotNil(t, Validate)

	assert.NoError(t, Validate.Struct(reportQuery{ReportType: "sales", Period: "week", StartDate: "2024-01-01"}))
	assert.NoError(t, Validate.Struct(reportQuery{ReportType: "Forecast"}))
	assert.NoError(t, Validate.Struct(reportQuery{ReportType: "pipeline", StartDate: "2024-01-01T10:00:00+07:00"}))

	assert.Error(t, Validate.Struct(reportQuery{ReportType: "revenue"}))
	assert.NoError(t, Validate.Struct(reportQuery{ReportType: "sales", Period: "decade"}))
	assert.NoError(t, Validate.Struct(reportQuery{ReportType: "sales", Period: "7d"}))
	assert.NoError(t, Validate.Struct(reportQuery{ReportType: "sales", Period: "last-month"}))
	assert.Error(t, Validate.Struct(reportQuery{ReportType: "sales", Period: strings.Repeat("x", 33)}))
	assert.Error(t, Validate.Struct(reportQuery{ReportType: "sales", StartDate: "01/02/2024"}))
	assert.Error(t, Validate.Struct(reportQuery{ReportType: "sales", Note: "<script>alert(1)</script>"}))
}

func TestParseReportDate(t *testing.T) {
	d, err := ParseReportDate("2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05T00:00:00Z", d.Format("2006-01-02T15:04:05Z07:00"))

	d, err = ParseReportDate("2024-03-05T01:00:00+07:00")
	require.NoError(t, err)
	assert.Equal(t, 4, d.Day())
	assert.Equal(t, 18, d.Hour())

	_, err = ParseReportDate("yesterday")
	assert.Error(t, err)
}
