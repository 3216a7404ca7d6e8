package domain

// StaffUser is a back-office account allowed to cancel reservations and enter
// manual bookings.
type StaffUser struct {
	ID           int32  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
	Active       bool   `json:"active"`
}
