package model

// Detail — одна ревизия деталей профиля. RFID не уникален: для одного
// RFID может существовать несколько ревизий, «текущую» выбирает резолвер.
type Detail struct {
	RFID       string `json:"rfid"`
	Level      Value  `json:"level,omitzero"`
	Experience Value  `json:"experience,omitzero"`
	Bio        string `json:"bio"`
	// ImageLocation — путь к изображению относительно корня статики,
	// например "/images/A1_photo.jpg". Пустая строка — изображения нет.
	ImageLocation  string `json:"imageLocation"`
	CompletionDate string `json:"completionDate,omitempty"`
	Public         bool   `json:"public"`
}

// DetailUpdate — частичное обновление ревизии. Неустановленные поля
// сохраняют текущее значение. Изображение передаётся отдельно.
type DetailUpdate struct {
	Level          Optional[Value]
	Experience     Optional[Value]
	Bio            Optional[string]
	CompletionDate Optional[string]
	Public         Optional[bool]
}

// DetailView — ревизия с встроенным изображением (data URI) для выдачи.
type DetailView struct {
	Detail
	Image *string `json:"image"`
}
