package entities

import "time"

// ToastType - вид уведомления.
type ToastType string

const (
	ToastSuccess ToastType = "success"
	ToastError   ToastType = "error"
	ToastWarning ToastType = "warning"
	ToastInfo    ToastType = "info"
)

// Valid сообщает, поддерживается ли тип.
func (t ToastType) Valid() bool {
	switch t {
	case ToastSuccess, ToastError, ToastWarning, ToastInfo:
		return true
	default:
		return false
	}
}

// Toast - короткое уведомление для пользователя.
type Toast struct {
	ID        string    `json:"id"`
	Type      ToastType `json:"type"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
