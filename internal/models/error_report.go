package models

import "time"

type ErrorReport struct {
	ID          string      `json:"id" db:"id"`
	Plugin      *PluginKind `json:"plugin,omitempty" db:"plugin"`
	Message     string      `json:"message" db:"message"`
	Destination string      `json:"destination,omitempty" db:"destination"`
	CreatedAt   time.Time   `json:"created_at" db:"created_at"`
}
