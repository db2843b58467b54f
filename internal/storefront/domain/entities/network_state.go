package entities

// NetworkState - две независимые оси состояния сети.
type NetworkState struct {
	IsOffline            bool `json:"is_offline"`
	TransientErrorActive bool `json:"transient_error_active"`
}

// NetworkDisplay - что показать пользователю.
type NetworkDisplay string

const (
	DisplayNone           NetworkDisplay = "none"
	DisplayTransientError NetworkDisplay = "transient-error"
	DisplayOffline        NetworkDisplay = "offline"
)

// Display сворачивает состояние в решение о баннере. Offline важнее временной ошибки.
func (s NetworkState) Display() NetworkDisplay {
	switch {
	case s.IsOffline:
		return DisplayOffline
	case s.TransientErrorActive:
		return DisplayTransientError
	default:
		return DisplayNone
	}
}
