package models

import "time"

// Department представляет подразделение (команду) — внешний справочник.
// Matches reference departments by ID; only the read side lives here.
type Department struct {
	ID        string    `json:"id" bson:"_id"`
	Name      string    `json:"name" bson:"name"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
