package crypto

import "errors"

var (
	// ErrAuthentication is returned when AES-GCM authentication fails:
	// wrong key, tampered nonce or tampered ciphertext.
	ErrAuthentication = errors.New("vault authentication failed")

	// ErrDecode is returned when decrypted bytes are not a valid vault document.
	ErrDecode = errors.New("vault payload cannot be decoded")

	// ErrUnsupportedKDF is returned for an unknown key derivation algorithm.
	ErrUnsupportedKDF = errors.New("unsupported key derivation algorithm")

	// ErrInvalidKDFParams is returned when Argon2id parameters are unusable
	// (missing salt, zero time or zero threads).
	ErrInvalidKDFParams = errors.New("invalid key derivation parameters")

	// ErrKeyDestroyed is returned when a destroyed session key is used.
	ErrKeyDestroyed = errors.New("session key destroyed")
)
