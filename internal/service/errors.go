// errors.go — ошибки бизнес-логики сервисного слоя.
package service

import "errors"

var (
	// ErrStorage — хранилище записей или файлов недоступно либо повреждено.
	ErrStorage = errors.New("ошибка хранилища")
	// ErrNotFound — ревизия для RFID не найдена.
	ErrNotFound = errors.New("ревизия не найдена")
	// ErrInvalidCredentials — неверный RFID или пароль. Не различает
	// «нет такого RFID» и «неверный пароль».
	ErrInvalidCredentials = errors.New("неверный RFID или пароль")
	// ErrMissingField — не передано обязательное поле.
	ErrMissingField = errors.New("не передано обязательное поле")
	// ErrInvalidField — значение поля недопустимо.
	ErrInvalidField = errors.New("недопустимое значение поля")
	// ErrMissingAsset — изображение ревизии не читается.
	ErrMissingAsset = errors.New("изображение недоступно")
)
