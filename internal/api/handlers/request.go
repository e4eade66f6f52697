// request.go — разбор тел запросов: JSON, urlencoded и multipart.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	apierrors "github.com/bigkaa/profilestore/internal/api/errors"
	"github.com/bigkaa/profilestore/internal/domain/model"
)

// multipartMemory — часть multipart-формы, удерживаемая в памяти;
// остальное multipart пишет во временные файлы.
const multipartMemory = 8 << 20

// errBodyTooLarge — тело запроса превысило лимит загрузки.
var errBodyTooLarge = errors.New("тело запроса превышает лимит")

// requestFields — поля запроса независимо от формата тела.
// Для JSON сохраняется исходный токен, чтобы числа оставались числами.
type requestFields struct {
	form url.Values
	json map[string]json.RawMessage
}

// parseRequest разбирает тело запроса по Content-Type.
// Без Content-Type тело считается формой.
func parseRequest(w http.ResponseWriter, r *http.Request, maxSize int64) (requestFields, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	switch mediaType {
	case "application/json":
		fields := requestFields{}
		if err = json.NewDecoder(r.Body).Decode(&fields.json); err == nil {
			return fields, nil
		}
	case "multipart/form-data":
		if err = r.ParseMultipartForm(multipartMemory); err == nil {
			return requestFields{form: r.MultipartForm.Value}, nil
		}
	default:
		if err = r.ParseForm(); err == nil {
			return requestFields{form: r.PostForm}, nil
		}
	}

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return requestFields{}, errBodyTooLarge
	}
	return requestFields{}, fmt.Errorf("некорректное тело запроса: %w", err)
}

// readFields разбирает тело запроса; при ошибке пишет ответ 400/413
// и возвращает false.
func readFields(w http.ResponseWriter, r *http.Request, maxSize int64) (requestFields, bool) {
	fields, err := parseRequest(w, r, maxSize)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			apierrors.FileTooLarge(w, err.Error())
		} else {
			apierrors.ValidationError(w, err.Error())
		}
		return requestFields{}, false
	}
	return fields, true
}

// text возвращает поле как строку. JSON-строки раскавычиваются,
// прочие JSON-токены возвращаются как текст.
func (f requestFields) text(name string) string {
	if f.json != nil {
		raw, ok := f.json[name]
		if !ok {
			return ""
		}
		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}
		if string(raw) == "null" {
			return ""
		}
		return string(raw)
	}
	return f.form.Get(name)
}

// optionalText — поле передано, если оно непустое.
func (f requestFields) optionalText(name string) model.Optional[string] {
	if s := f.text(name); s != "" {
		return model.Some(s)
	}
	return model.Optional[string]{}
}

// value возвращает поле level/experience. Числовой JSON-токен
// сохраняется как число (в том числе 0), строка — как строка.
// Прочие JSON-токены (bool, null, объекты, массивы) — поле не передано.
func (f requestFields) value(name string) model.Value {
	if f.json != nil {
		raw, ok := f.json[name]
		if !ok {
			return model.Value{}
		}
		var n json.Number
		if !strings.HasPrefix(strings.TrimSpace(string(raw)), `"`) {
			if err := json.Unmarshal(raw, &n); err != nil {
				return model.Value{}
			}
			var v model.Value
			_ = v.UnmarshalJSON(raw)
			return v
		}
	}
	if s := f.text(name); s != "" {
		return model.StringValue(s)
	}
	return model.Value{}
}

// optionalValue — value, если поле непустое.
func (f requestFields) optionalValue(name string) model.Optional[model.Value] {
	if v := f.value(name); !v.IsZero() {
		return model.Some(v)
	}
	return model.Optional[model.Value]{}
}

// optionalBool принимает только "true" и "false" (без учёта регистра),
// остальные значения считаются непереданными.
func (f requestFields) optionalBool(name string) model.Optional[bool] {
	switch strings.ToLower(strings.TrimSpace(f.text(name))) {
	case "true":
		return model.Some(true)
	case "false":
		return model.Some(false)
	}
	return model.Optional[bool]{}
}

// number разбирает числовое поле; пустое значение — 0.
func (f requestFields) number(name string) (float64, error) {
	s := strings.TrimSpace(f.text(name))
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("поле %s: ожидается число, получено %q", name, s)
	}
	return n, nil
}
