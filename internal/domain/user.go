package domain

// User is the slice of an externally owned account record that the lookup reads.
type User struct {
	Username     string
	PasswordHash string
}
