package models

// Admin is a back-office account authenticated with email and password,
// separate from phone-verified customers.
type Admin struct {
	BaseModel
	Username     string `gorm:"uniqueIndex" json:"username"`
	Email        string `gorm:"uniqueIndex" json:"email"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}
