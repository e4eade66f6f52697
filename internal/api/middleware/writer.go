package middleware

import "net/http"

// statusWriter запоминает статус-код и размер ответа. Один экземпляр
// на запрос используется и метриками, и журналом запросов.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int64
}

// captureResponse возвращает statusWriter для w: существующий, если w
// уже обёрнут внешним middleware, иначе новый.
func captureResponse(w http.ResponseWriter) *statusWriter {
	if sw, ok := w.(*statusWriter); ok {
		return sw
	}
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	n, err := sw.ResponseWriter.Write(b)
	sw.bytes += int64(n)
	return n, err
}

// Unwrap нужен http.ResponseController (Flush, дедлайны).
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}
