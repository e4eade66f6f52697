// resolver.go — выбор текущей ревизии деталей для каждого RFID.
package service

import "github.com/bigkaa/profilestore/internal/domain/model"

// ResolveCurrent выбирает для каждого RFID публичную ревизию с
// наибольшим level. Первая встреченная ревизия RFID принимается
// безусловно, следующая заменяет её только при строго большем level:
// при равенстве остаётся более ранняя (порядок хранения).
// Непубличные ревизии в результат не попадают никогда.
func ResolveCurrent(revisions []model.Detail) map[string]model.Detail {
	current := make(map[string]model.Detail)
	for _, rev := range revisions {
		if !rev.Public {
			continue
		}
		kept, ok := current[rev.RFID]
		if !ok || rev.Level.Greater(kept.Level) {
			current[rev.RFID] = rev
		}
	}
	return current
}
