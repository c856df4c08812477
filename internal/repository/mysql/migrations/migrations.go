package migrations

import "embed"

// FS 嵌入本目录下的 SQL 迁移文件，golang-migrate 通过 iofs 驱动读取
//
//go:embed *.sql
var FS embed.FS

const Version = 1
