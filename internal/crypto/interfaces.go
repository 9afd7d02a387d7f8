package crypto

import "github.com/MKhiriev/go-pass-vault/models"

// Engine is the vault's symmetric crypto. It knows nothing about the
// network, storage or session state; it only derives keys and seals or
// opens blobs.
//
// Flow:
//
//	params = NewKDFParams()                      (new vaults only)
//	key    = DeriveKey(password, params)
//	vault  = SealVault(key, params, credentials)
//	creds  = OpenVault(key, vault)
type Engine interface {
	// NewKDFParams returns fresh Argon2id parameters with a random salt,
	// using the cost configured for this engine.
	NewKDFParams() (models.KDFParams, error)

	// DeriveKey derives the session key from the master password.
	// Same password and params always yield the same key. The legacy
	// SHA-256 scheme never fails, whatever the password.
	DeriveKey(password string, params models.KDFParams) (*SessionKey, error)

	// Encrypt seals plaintext with AES-256-GCM under a fresh random
	// 12-byte nonce and returns the nonce and the ciphertext with tag.
	Encrypt(key *SessionKey, plaintext []byte) (iv, ciphertext []byte, err error)

	// Decrypt reverses Encrypt. Any wrong key, modified nonce or modified
	// ciphertext yields ErrAuthentication.
	Decrypt(key *SessionKey, iv, ciphertext []byte) ([]byte, error)

	// SealVault serializes creds into a versioned plaintext document and
	// encrypts it into a complete vault record.
	SealVault(key *SessionKey, params models.KDFParams, creds []models.Credential) (models.EncryptedVault, error)

	// OpenVault decrypts and decodes a vault record. It returns
	// ErrAuthentication when decryption fails and ErrDecode when the
	// plaintext is not a credential document.
	OpenVault(key *SessionKey, vault models.EncryptedVault) ([]models.Credential, error)
}
