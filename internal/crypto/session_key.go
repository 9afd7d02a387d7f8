// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"sync"

	"github.com/awnumar/memguard"
)

// SessionKey holds the derived vault key inside a memguard Enclave, so the
// raw bytes are encrypted in memory and only decrypted for the duration of
// a single crypto operation. A SessionKey is never serialized.
type SessionKey struct {
	mu      sync.RWMutex
	enclave *memguard.Enclave
}

// newSessionKey seals raw into an Enclave and wipes raw.
func newSessionKey(raw []byte) *SessionKey {
	buf := memguard.NewBufferFromBytes(raw)
	return &SessionKey{enclave: buf.Seal()}
}

// Destroy drops the enclave. Every later use fails with ErrKeyDestroyed.
// Safe to call on a nil key and more than once.
func (k *SessionKey) Destroy() {
	if k == nil {
		return
	}

	k.mu.Lock()
	k.enclave = nil
	k.mu.Unlock()
}

// Destroyed reports whether the key is nil or destroyed.
func (k *SessionKey) Destroyed() bool {
	if k == nil {
		return true
	}

	k.mu.RLock()
	defer k.mu.RUnlock()
	return k.enclave == nil
}

// use opens the enclave, hands the plaintext key to fn and wipes it again.
func (k *SessionKey) use(fn func(raw []byte) error) error {
	if k == nil {
		return ErrKeyDestroyed
	}

	k.mu.RLock()
	enclave := k.enclave
	k.mu.RUnlock()
	if enclave == nil {
		return ErrKeyDestroyed
	}

	buf, err := enclave.Open()
	if err != nil {
		return ErrKeyDestroyed
	}
	defer buf.Destroy()

	return fn(buf.Bytes())
}
