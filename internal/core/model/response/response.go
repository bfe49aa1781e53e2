package response

import "time"

// ISOLayout always renders milliseconds, e.g. 2024-05-01T12:00:00.000Z.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// ISOTime is a timestamp encoded in UTC with ISOLayout.
type ISOTime time.Time

func (t ISOTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).UTC().Format(ISOLayout) + `"`), nil
}

func (t *ISOTime) UnmarshalJSON(data []byte) error {
	var parsed time.Time

	if err := parsed.UnmarshalJSON(data); err != nil {
		return err
	}

	*t = ISOTime(parsed.UTC())
	return nil
}

func (t ISOTime) Time() time.Time {
	return time.Time(t)
}

type TodoResponse struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	CreatedAt   ISOTime `json:"createdAt"`
	UpdatedAt   ISOTime `json:"updatedAt"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

type ListResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Count   int  `json:"count"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Success   bool    `json:"success"`
	Message   string  `json:"message"`
	Timestamp ISOTime `json:"timestamp"`
}
