package model

// Session — сохранённая сессия DSpace для CLI.
type Session struct {
	URL      string `json:"url"`
	ID       string `json:"jsessionid"`
	Email    string `json:"email,omitempty"`
	FullName string `json:"fullname,omitempty"`
}
