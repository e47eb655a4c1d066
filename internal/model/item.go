package model

// Item is the domain model for a webtoon entry as returned by the API.
// Order is whatever the server sent; the client never re-sorts.
type Item struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Credentials is the login pair sent to the authentication endpoint.
// It is built once from config and never mutated.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
