// merge.go — объединение учётных записей с текущими ревизиями деталей.
package service

import (
	"log/slog"

	"github.com/bigkaa/profilestore/internal/api/middleware"
	"github.com/bigkaa/profilestore/internal/domain/model"
)

// MergeForDisplay строит по одной Composite на каждую учётную запись
// в порядке identities. Детали берутся из resolved по RFID; если у
// ревизии есть изображение, оно кодируется и встраивается как data URI.
//
// Ошибка чтения изображения не прерывает обработку: у этой записи
// image остаётся nil, остальные записи не затрагиваются.
func MergeForDisplay(
	identities []model.Identity,
	resolved map[string]model.Detail,
	images ImageEncoder,
	logger *slog.Logger,
) []model.Composite {
	result := make([]model.Composite, 0, len(identities))

	for _, id := range identities {
		detail, ok := resolved[id.RFID]
		if !ok {
			result = append(result, model.NewComposite(id, nil, nil))
			continue
		}

		var image *string
		if detail.ImageLocation != "" {
			encoded, err := images.Encode(detail.ImageLocation)
			if err != nil {
				middleware.AssetEncodeFailuresTotal.Inc()
				logger.Warn("Ошибка чтения изображения",
					slog.String("rfid", id.RFID),
					slog.String("location", detail.ImageLocation),
					slog.String("error", err.Error()),
				)
			} else {
				uri := model.ImageDataURIPrefix + encoded
				image = &uri
			}
		}

		result = append(result, model.NewComposite(id, &detail, image))
	}

	return result
}
