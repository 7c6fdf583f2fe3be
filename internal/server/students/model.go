package students

import "time"

type Student struct {
	ID        string
	FullName  string
	Email     string
	CreatedAt time.Time
}
