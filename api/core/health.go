package core

import (
	"github.com/maxfil333/VinylVault/database"
)

// checkDatabaseHealth ping 数据库，返回 "ok" 或错误描述
func checkDatabaseHealth(provider database.Provider) string {
	if provider == nil {
		return "not configured"
	}
	if err := provider.Ping(); err != nil {
		return "error: " + err.Error()
	}
	return "ok"
}
