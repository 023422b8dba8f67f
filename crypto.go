package main

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/scrypt"
)

const (
	cipherVersion = byte(1)
	ivSize        = 16
	tagSize       = 16
	headerSize    = 1 + ivSize           // version + IV
	frameOverhead = headerSize + tagSize // 33 bytes: version + iv + tag

	keyLen = 32

	// scryptSalt is a fixed, global constant. Two installs with the same
	// password derive the same key, so filename IVs (which are a function
	// of the key) stay stable across hosts. Changing this breaks
	// compatibility with existing backups; see DESIGN.md.
	scryptSalt = "salt"
	scryptN    = 16384
	scryptR    = 8
	scryptP    = 1
)

// deriveKey turns a password into the 32-byte key used for all cipher
// operations and synthetic-IV HMACs, via scrypt with the fixed salt above.
func deriveKey(password string) ([]byte, error) {
	key, err := scrypt.Key([]byte(password), []byte(scryptSalt), scryptN, scryptR, scryptP, keyLen)
	if err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return key, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("new cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, fmt.Errorf("new gcm: %w", err)
	}
	return gcm, nil
}

// encryptBody reads all of r, encrypts it under a fresh random IV, and
// returns a stream of version || iv || ciphertext || tag.
//
// The plaintext is buffered in memory rather than encrypted block-by-block:
// AES-GCM authenticates with a single tag over the whole body, so nothing
// can be written downstream until encryption of the entire body completes
// anyway. This is the reason the encryption wrapper imposes its own 64 GiB
// write ceiling (see is_write_supported in encbackend.go) rather than
// relying on the object-store's multipart limits.
func encryptBody(key []byte, r io.Reader) (io.Reader, int64, error) {
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("read plaintext: %w", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, 0, err
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, 0, fmt.Errorf("generate iv: %w", err)
	}

	sealed := gcm.Seal(nil, iv, plaintext, nil)

	out := make([]byte, 0, headerSize+len(sealed))
	out = append(out, cipherVersion)
	out = append(out, iv...)
	out = append(out, sealed...)

	return bytes.NewReader(out), int64(len(out)), nil
}

// decryptBody reverses encryptBody. It reads the 17-byte header, then
// streams the remainder of r while holding back the trailing 16 bytes in a
// rolling buffer, so the authentication tag is never mistakenly fed to the
// AEAD engine as ciphertext. Verification happens once, after the whole
// body has been read; nothing is returned to the caller before the tag
// checks out.
func decryptBody(key []byte, r io.Reader) (io.Reader, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return nil, newIntegrityError("truncated ciphertext: missing header")
	}
	if header[0] != cipherVersion {
		return nil, newIntegrityError(fmt.Sprintf("unsupported encryption version %d", header[0]))
	}
	iv := header[1:]

	ciphertext, tag, err := readWithTrailer(r, tagSize)
	if err != nil {
		return nil, err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	sealed := append(ciphertext, tag...)
	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, newIntegrityError("authentication tag mismatch")
	}

	return bytes.NewReader(plaintext), nil
}

// readWithTrailer reads all of r, returning everything except the final
// trailerSize bytes as body, and those final bytes as trailer. It never
// holds more than trailerSize bytes back from body at a time.
func readWithTrailer(r io.Reader, trailerSize int) (body, trailer []byte, err error) {
	hold := make([]byte, 0, trailerSize)
	chunk := make([]byte, 32*1024)

	for {
		n, rerr := r.Read(chunk)
		if n > 0 {
			hold = append(hold, chunk[:n]...)
			if len(hold) > trailerSize {
				spill := len(hold) - trailerSize
				body = append(body, hold[:spill]...)
				rest := make([]byte, len(hold)-spill)
				copy(rest, hold[spill:])
				hold = rest
			}
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			return nil, nil, fmt.Errorf("read ciphertext: %w", rerr)
		}
	}

	if len(hold) != trailerSize {
		return nil, nil, newIntegrityError("truncated ciphertext: missing authentication tag")
	}

	return body, hold, nil
}

// syntheticIV derives a deterministic IV for filename encryption:
// H1 = HMAC-SHA256(key, "S7" || "aes-256-gcm"); H2 =
// HMAC-SHA256(H1, name); IV = last 16 bytes of H2. The same name always
// encrypts to the same ciphertext under the same key.
func syntheticIV(key []byte, name string) []byte {
	mac1 := hmac.New(sha256.New, key)
	mac1.Write([]byte("S7aes-256-gcm"))
	h1 := mac1.Sum(nil)

	mac2 := hmac.New(sha256.New, h1)
	mac2.Write([]byte(name))
	h2 := mac2.Sum(nil)

	return h2[len(h2)-ivSize:]
}

// encryptName produces the path-safe encrypted form of a plaintext
// filename: base64(version || iv || ciphertext || tag), with "/" replaced
// by "_" so the result is safe to use as an object-store key or filesystem
// path segment.
func encryptName(key []byte, name string) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	iv := syntheticIV(key, name)
	sealed := gcm.Seal(nil, iv, []byte(name), nil)

	raw := make([]byte, 0, headerSize+len(sealed))
	raw = append(raw, cipherVersion)
	raw = append(raw, iv...)
	raw = append(raw, sealed...)

	return pathSafeEncode(raw), nil
}

// decryptName reverses encryptName.
func decryptName(key []byte, encoded string) (string, error) {
	raw, err := pathSafeDecode(encoded)
	if err != nil {
		return "", newIntegrityError(fmt.Sprintf("malformed encrypted name: %s", err))
	}
	if len(raw) < headerSize+tagSize {
		return "", newIntegrityError("truncated encrypted name")
	}
	if raw[0] != cipherVersion {
		return "", newIntegrityError(fmt.Sprintf("unsupported encryption version %d", raw[0]))
	}
	iv := raw[1:headerSize]
	sealed := raw[headerSize:]

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return "", newIntegrityError("filename authentication tag mismatch")
	}

	return string(plaintext), nil
}

func pathSafeEncode(b []byte) string {
	return strings.ReplaceAll(base64.StdEncoding.EncodeToString(b), "/", "_")
}

func pathSafeDecode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(strings.ReplaceAll(s, "_", "/"))
}
