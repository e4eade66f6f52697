// profile.go — сервис профилей: операции, доступные транспортному слою.
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bigkaa/profilestore/internal/api/middleware"
	"github.com/bigkaa/profilestore/internal/domain/model"
	"github.com/bigkaa/profilestore/internal/storage/recordstore"
)

// IdentityStore — коллекция учётных записей.
type IdentityStore interface {
	ReadAll(ctx context.Context) ([]model.Identity, error)
	Append(ctx context.Context, rec model.Identity) error
}

// DetailStore — коллекция ревизий деталей.
type DetailStore interface {
	ReadAll(ctx context.Context) ([]model.Detail, error)
	Append(ctx context.Context, rec model.Detail) error
	Update(ctx context.Context, match func(model.Detail) bool, mutate func(*model.Detail) error) (model.Detail, error)
}

// AssetStore — файлы изображений.
type AssetStore interface {
	SaveUpload(r io.Reader) (string, error)
	Store(tempName, ownerKey, originalFilename string) (string, error)
	Replace(ownerKey, oldLocation, tempName, originalFilename string) (string, error)
	Delete(location string) error
	Location(name string) string
	Encode(location string) (string, error)
}

// Upload — принятый файл изображения, ещё не привязанный к владельцу.
type Upload struct {
	// TempName — временное имя файла в директории изображений
	TempName string
	// OriginalFilename — имя файла у клиента
	OriginalFilename string
}

// SubmitRequest — поля новой ревизии деталей.
type SubmitRequest struct {
	RFID       string
	Level      model.Value
	Experience model.Value
	Bio        string
}

// ProfileService — учётные записи и ревизии деталей.
type ProfileService struct {
	identities IdentityStore
	details    DetailStore
	assets     AssetStore
	images     *ImageCache
	logger     *slog.Logger
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(
	identities IdentityStore,
	details DetailStore,
	assets AssetStore,
	images *ImageCache,
	logger *slog.Logger,
) *ProfileService {
	return &ProfileService{
		identities: identities,
		details:    details,
		assets:     assets,
		images:     images,
		logger:     logger.With(slog.String("component", "profile_service")),
	}
}

// ListUsers возвращает учётные записи, объединённые с текущими
// публичными ревизиями деталей.
func (s *ProfileService) ListUsers(ctx context.Context) ([]model.Composite, error) {
	identities, err := s.identities.ReadAll(ctx)
	if err != nil {
		return nil, s.storageFailure("list_users", err)
	}

	details, err := s.details.ReadAll(ctx)
	if err != nil {
		return nil, s.storageFailure("list_users", err)
	}

	result := MergeForDisplay(identities, ResolveCurrent(details), s.images, s.logger)

	middleware.OperationsTotal.WithLabelValues("list_users", "success").Inc()
	return result, nil
}

// AddIdentity добавляет учётную запись.
func (s *ProfileService) AddIdentity(ctx context.Context, id model.Identity) error {
	if err := s.identities.Append(ctx, id); err != nil {
		return s.storageFailure("add_identity", err)
	}

	middleware.OperationsTotal.WithLabelValues("add_identity", "success").Inc()
	s.logger.Info("Учётная запись добавлена", slog.String("rfid", id.RFID))
	return nil
}

// Login ищет учётную запись с совпадающими RFID и паролем.
func (s *ProfileService) Login(ctx context.Context, rfid, password string) (model.Identity, error) {
	identities, err := s.identities.ReadAll(ctx)
	if err != nil {
		return model.Identity{}, s.storageFailure("login", err)
	}

	for _, id := range identities {
		if id.RFID == rfid && id.Password == password {
			middleware.OperationsTotal.WithLabelValues("login", "success").Inc()
			return id, nil
		}
	}

	middleware.OperationsTotal.WithLabelValues("login", "denied").Inc()
	return model.Identity{}, ErrInvalidCredentials
}

// ReceiveUpload сохраняет поток загружаемого изображения под временным именем.
func (s *ProfileService) ReceiveUpload(r io.Reader, originalFilename string) (*Upload, error) {
	name, err := s.assets.SaveUpload(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorage, err)
	}
	return &Upload{TempName: name, OriginalFilename: originalFilename}, nil
}

// DiscardUpload удаляет неиспользованную загрузку.
func (s *ProfileService) DiscardUpload(u *Upload) {
	if u == nil {
		return
	}
	if err := s.assets.Delete(s.assets.Location(u.TempName)); err != nil {
		s.logger.Warn("Не удалось удалить временную загрузку",
			slog.String("temp_name", u.TempName),
			slog.String("error", err.Error()),
		)
	}
}

// SubmitDetails добавляет новую ревизию деталей. Изображение обязательно:
// оно остаётся под временным именем (на него указывает imageLocation)
// и дублируется в каноническое имя <rfid>_<имя файла>.
// Новая ревизия не публична, пока её не откроют через UpdateDetails.
func (s *ProfileService) SubmitDetails(ctx context.Context, req SubmitRequest, upload *Upload) (model.Detail, error) {
	if req.RFID == "" {
		return model.Detail{}, fmt.Errorf("%w: rfid", ErrMissingField)
	}
	if err := validateRFID(req.RFID); err != nil {
		s.DiscardUpload(upload)
		return model.Detail{}, err
	}
	if upload == nil {
		return model.Detail{}, fmt.Errorf("%w: image", ErrMissingField)
	}

	canonical, err := s.assets.Store(upload.TempName, req.RFID, upload.OriginalFilename)
	if err != nil {
		s.DiscardUpload(upload)
		return model.Detail{}, s.storageFailure("submit_details", err)
	}
	s.images.Invalidate(canonical)

	detail := model.Detail{
		RFID:          req.RFID,
		Level:         req.Level,
		Experience:    req.Experience,
		Bio:           req.Bio,
		ImageLocation: s.assets.Location(upload.TempName),
	}

	if err := s.details.Append(ctx, detail); err != nil {
		s.DiscardUpload(upload)
		return model.Detail{}, s.storageFailure("submit_details", err)
	}

	middleware.OperationsTotal.WithLabelValues("submit_details", "success").Inc()
	s.logger.Info("Ревизия деталей добавлена",
		slog.String("rfid", req.RFID),
		slog.String("image", detail.ImageLocation),
		slog.String("canonical_image", canonical),
	)
	return detail, nil
}

// UpdateDetails применяет частичное обновление к первой ревизии RFID.
// Если передано изображение, старый файл ревизии удаляется, а новый
// получает каноническое имя. Поиск, замена файла и запись выполняются
// в одной критической секции хранилища.
func (s *ProfileService) UpdateDetails(ctx context.Context, rfid string, upd model.DetailUpdate, upload *Upload) (model.Detail, error) {
	if rfid == "" {
		return model.Detail{}, fmt.Errorf("%w: rfid", ErrMissingField)
	}
	if err := validateRFID(rfid); err != nil {
		s.DiscardUpload(upload)
		return model.Detail{}, err
	}

	var touched []string
	updated, err := s.details.Update(ctx,
		func(d model.Detail) bool { return d.RFID == rfid },
		func(d *model.Detail) error {
			ApplyUpdate(d, upd)
			if upload == nil {
				return nil
			}

			// Старый файл может быть удалён, даже если переименование не удалось.
			touched = append(touched, d.ImageLocation)
			loc, err := s.assets.Replace(rfid, d.ImageLocation, upload.TempName, upload.OriginalFilename)
			if err != nil {
				return fmt.Errorf("%w: замена изображения: %w", ErrStorage, err)
			}
			touched = append(touched, loc)
			d.ImageLocation = loc
			return nil
		},
	)
	s.images.Invalidate(touched...)

	if err != nil {
		if errors.Is(err, recordstore.ErrNotFound) {
			s.DiscardUpload(upload)
			middleware.OperationsTotal.WithLabelValues("update_details", "not_found").Inc()
			return model.Detail{}, fmt.Errorf("%w: %s", ErrNotFound, rfid)
		}
		return model.Detail{}, s.storageFailure("update_details", err)
	}

	middleware.OperationsTotal.WithLabelValues("update_details", "success").Inc()
	s.logger.Info("Ревизия деталей обновлена",
		slog.String("rfid", rfid),
		slog.Bool("image_replaced", upload != nil),
	)
	return updated, nil
}

// GetDetails возвращает все ревизии RFID со встроенными изображениями.
// Пустой результат — ревизий нет. Нечитаемое изображение любой
// ревизии — ошибка всей операции.
func (s *ProfileService) GetDetails(ctx context.Context, rfid string) ([]model.DetailView, error) {
	details, err := s.details.ReadAll(ctx)
	if err != nil {
		return nil, s.storageFailure("get_details", err)
	}

	var views []model.DetailView
	for _, d := range details {
		if d.RFID != rfid {
			continue
		}

		view := model.DetailView{Detail: d}
		if d.ImageLocation != "" {
			encoded, err := s.images.Encode(d.ImageLocation)
			if err != nil {
				middleware.AssetEncodeFailuresTotal.Inc()
				middleware.OperationsTotal.WithLabelValues("get_details", "error").Inc()
				s.logger.Error("Ошибка чтения изображения",
					slog.String("rfid", rfid),
					slog.String("location", d.ImageLocation),
					slog.String("error", err.Error()),
				)
				return nil, fmt.Errorf("%w: %w", ErrMissingAsset, err)
			}
			uri := model.ImageDataURIPrefix + encoded
			view.Image = &uri
		}
		views = append(views, view)
	}

	middleware.OperationsTotal.WithLabelValues("get_details", "success").Inc()
	return views, nil
}

// CheckStorage проверяет, что обе коллекции читаются.
func (s *ProfileService) CheckStorage(ctx context.Context) error {
	if _, err := s.identities.ReadAll(ctx); err != nil {
		return err
	}
	_, err := s.details.ReadAll(ctx)
	return err
}

// validateRFID проверяет, что RFID можно использовать в имени файла
// изображения: без разделителей пути и не "."/"..".
func validateRFID(rfid string) error {
	if rfid == "." || rfid == ".." || strings.ContainsAny(rfid, "/\\\x00") {
		return fmt.Errorf("%w: rfid %q", ErrInvalidField, rfid)
	}
	return nil
}

// storageFailure логирует ошибку хранилища и приводит её к ErrStorage.
func (s *ProfileService) storageFailure(op string, err error) error {
	middleware.OperationsTotal.WithLabelValues(op, "error").Inc()
	s.logger.Error("Ошибка хранилища",
		slog.String("operation", op),
		slog.String("error", err.Error()),
	)
	if errors.Is(err, ErrStorage) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorage, err)
}
