// Package cli holds release metadata injected by the release build:
//
//	-ldflags "-X 'github.com/flarebyte/artisan-helper/cli.Version=1.2.3' -X 'github.com/flarebyte/artisan-helper/cli.Date=2026-02-09'"
package cli

var (
	Version string
	Date    string
)
