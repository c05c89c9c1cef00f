package models

import "time"

// Lecturer is a registered dosen account. The password hash never leaves the store.
type Lecturer struct {
	ID           string    `json:"id"`
	FullName     string    `json:"fullName"`
	NIDN         string    `json:"nidn"`
	NIP          string    `json:"nip"`
	AcademicRank string    `json:"academicRank"`
	University   string    `json:"university"`
	Faculty      string    `json:"faculty"`
	Major        string    `json:"major"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	RegisteredAt time.Time `json:"registeredAt"`
}
