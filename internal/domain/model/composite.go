package model

// Composite — объединение Identity, текущей ревизии деталей и
// встроенного изображения. Только для чтения, не сохраняется.
type Composite struct {
	RFID           string  `json:"rfid"`
	Name           string  `json:"name"`
	Password       string  `json:"password"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Level          Value   `json:"level"`
	Experience     Value   `json:"experience"`
	Bio            string  `json:"bio"`
	ImageLocation  string  `json:"imageLocation"`
	CompletionDate string  `json:"completionDate"`
	Public         bool    `json:"public"`
	// Image — data URI (data:image/jpeg;base64,...) или nil.
	Image *string `json:"image"`
}

// ImageDataURIPrefix — префикс встроенного изображения.
const ImageDataURIPrefix = "data:image/jpeg;base64,"

// NewComposite собирает запись для отображения. detail == nil —
// деталей нет, поля получают значения по умолчанию.
func NewComposite(id Identity, detail *Detail, image *string) Composite {
	c := Composite{
		RFID:       id.RFID,
		Name:       id.Name,
		Password:   id.Password,
		Latitude:   id.Latitude,
		Longitude:  id.Longitude,
		Level:      StringValue(""),
		Experience: StringValue(""),
		Image:      image,
	}
	if detail == nil {
		return c
	}
	if !detail.Level.IsZero() {
		c.Level = detail.Level
	}
	if !detail.Experience.IsZero() {
		c.Experience = detail.Experience
	}
	c.Bio = detail.Bio
	c.ImageLocation = detail.ImageLocation
	c.CompletionDate = detail.CompletionDate
	c.Public = detail.Public
	return c
}
