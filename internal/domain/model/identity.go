package model

// Identity — учётная запись, ключ — RFID. Создаётся регистрацией,
// никогда не удаляется.
type Identity struct {
	RFID      string  `json:"rfid"`
	Name      string  `json:"name"`
	Password  string  `json:"password"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}
