package service

// ActivationSigner signs and verifies the username embedded in activation
// links. Unsign returns domain.ErrBadSignature on any tampered or expired
// token.
type ActivationSigner interface {
	Sign(username string) (string, error)
	Unsign(sign string) (string, error)
}
