//go:build tools

package tools

import (
	_ "github.com/golangci/golangci-lint/cmd/golangci-lint"
	_ "github.com/jackc/tern/v2/migrate"
	_ "github.com/sqlc-dev/sqlc/cmd/sqlc"
)
