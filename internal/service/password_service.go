package service

import "bboard/internal/domain"

type PasswordService interface {
	Hash(password string) (hash, salt, paramsJSON []byte, algo string, ver int, err error)
	// Verify checks the password against the credential stored on the user
	// and reports whether the hash should be recomputed under current policy.
	Verify(password string, u *domain.User) (rehashNeeded bool, ok bool)
}
