// Package main là entry point của reportctl: sinh báo cáo, cấp token và seed dữ liệu từ dòng lệnh.
package main

import "sales_crm/internal/cli"

func main() {
	cli.Execute()
}
