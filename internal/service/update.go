// update.go — применение частичного обновления к ревизии деталей.
package service

import "github.com/bigkaa/profilestore/internal/domain/model"

// ApplyUpdate переносит в d переданные поля u. Непереданные поля
// сохраняют текущее значение. Изображение обрабатывается отдельно.
func ApplyUpdate(d *model.Detail, u model.DetailUpdate) {
	d.Level = u.Level.Or(d.Level)
	d.Experience = u.Experience.Or(d.Experience)
	d.Bio = u.Bio.Or(d.Bio)
	d.CompletionDate = u.CompletionDate.Or(d.CompletionDate)
	d.Public = u.Public.Or(d.Public)
}
