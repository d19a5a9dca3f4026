package models

import "time"

// Area is an organisational unit of the school (e.g. a department).
type Area struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	RouteName string `db:"route_name" json:"route_name"`
}

// Class is a group of students within an area.
type Class struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	RouteName string `db:"route_name" json:"route_name"`
	AreaID    string `db:"area_id" json:"area_id"`
}

// Subject is a taught discipline.
type Subject struct {
	ID        string `db:"id" json:"id"`
	Name      string `db:"name" json:"name"`
	Icon      string `db:"icon" json:"icon"`
	RouteName string `db:"route_name" json:"route_name"`
}

// TimeSpan is a semester or comparable planning period.
type TimeSpan struct {
	ID      string    `db:"id" json:"id"`
	Name    string    `db:"name" json:"name"`
	StartAt time.Time `db:"start_at" json:"start"`
	EndAt   time.Time `db:"end_at" json:"end"`
}

// Teacher identifies a plan creator. Accounts live with the external
// identity provider; this row only mirrors display data.
type Teacher struct {
	ID           string `db:"id" json:"id"`
	Name         string `db:"name" json:"name"`
	Abbreviation string `db:"abbreviation" json:"abbreviation"`
}
