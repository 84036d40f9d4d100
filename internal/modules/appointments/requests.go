package appointments

import "time"

type CreateRequest struct {
	Title    string     `json:"title" validate:"required,max=255"`
	Date     *time.Time `json:"date" validate:"required"`
	Location string     `json:"location" validate:"max=255"`
	Notes    string     `json:"notes" validate:"max=5000"`
}
