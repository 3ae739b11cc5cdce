package db

import (
	"gorm.io/gorm"
)

// CreateGuardIndexes создает индексы, которые AutoMigrate выразить не может.
// Уникальный индекс по нормализованной паре заявок запрещает существование
// встречных заявок A->B и B->A одновременно: проигравшая вставка получает
// duplicate key, даже если обе транзакции прошли предварительные проверки.
func CreateGuardIndexes(database *gorm.DB) error {
	// Только для Postgres: sqlite в тестах обходится проверками в транзакции
	if database.Dialector.Name() != "postgres" {
		return nil
	}

	createIndexSQL := `
		CREATE UNIQUE INDEX IF NOT EXISTS friend_requests_pair_any_direction
		ON friend_requests (LEAST(user_id, requester_id), GREATEST(user_id, requester_id));
	`
	return database.Exec(createIndexSQL).Error
}
