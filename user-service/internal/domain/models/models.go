package models

type User struct {
	UID      string `json:"uid,omitempty"`
	Email    string `json:"email" validate:"required,email"`
	Pass     string `json:"-"`
	Name     string `json:"name,omitempty"`
	LastName string `json:"lastname,omitempty"`
}
