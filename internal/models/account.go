package models

import (
	"golang.org/x/crypto/bcrypt"
)

// Role identifies which kind of account a token was issued to.
type Role string

const (
	RoleDoctor  Role = "doctor"
	RolePatient Role = "patient"
)

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPasswordHash compares a plain password against a stored bcrypt hash.
func CheckPasswordHash(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// SetPassword hashes a password and sets it on the patient.
func (p *Patient) SetPassword(password string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	p.Password = hashed
	return nil
}

// CheckPassword compares a password with the patient's hashed password.
func (p *Patient) CheckPassword(password string) bool {
	return CheckPasswordHash(p.Password, password)
}

// SetPassword hashes a password and sets it on the doctor.
func (d *Doctor) SetPassword(password string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	d.Password = hashed
	return nil
}

// CheckPassword compares a password with the doctor's hashed password.
func (d *Doctor) CheckPassword(password string) bool {
	return CheckPasswordHash(d.Password, password)
}
