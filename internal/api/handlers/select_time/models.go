package select_time

// SelectTimeRequest HTTP request model.
// Time - метка "11:00" или абсолютное время в RFC3339.
type SelectTimeRequest struct {
	Time string `json:"time"`
}
