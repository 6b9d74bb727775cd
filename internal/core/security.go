// AngelaMos | 2026
// security.go

package core

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const saltLength = 16

type argonParams struct {
	memory  uint32
	time    uint32
	threads uint8
	keyLen  uint32
}

// currentParams are used for new hashes. Stored hashes with any other
// settings are upgraded on the next successful login.
var currentParams = argonParams{
	memory:  64 * 1024,
	time:    1,
	threads: 4,
	keyLen:  32,
}

func (p argonParams) derive(password string, salt []byte) []byte {
	return argon2.IDKey([]byte(password), salt, p.time, p.memory, p.threads, p.keyLen)
}

// storedHash is the PHC string form kept in users.password_hash:
// $argon2id$v=19$m=65536,t=1,p=4$<salt>$<key>
type storedHash struct {
	params argonParams
	salt   []byte
	key    []byte
}

func (h storedHash) String() string {
	enc := base64.RawStdEncoding
	return fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.memory,
		h.params.time,
		h.params.threads,
		enc.EncodeToString(h.salt),
		enc.EncodeToString(h.key),
	)
}

var errMalformedHash = errors.New("malformed password hash")

func parseStoredHash(encoded string) (storedHash, error) {
	var h storedHash

	fields := strings.Split(encoded, "$")
	if len(fields) != 6 || fields[0] != "" {
		return h, errMalformedHash
	}
	if fields[1] != "argon2id" {
		return h, fmt.Errorf("%w: algorithm %q", errMalformedHash, fields[1])
	}
	if fields[2] != fmt.Sprintf("v=%d", argon2.Version) {
		return h, fmt.Errorf("%w: version %q", errMalformedHash, fields[2])
	}

	p := &h.params
	if _, err := fmt.Sscanf(fields[3], "m=%d,t=%d,p=%d", &p.memory, &p.time, &p.threads); err != nil {
		return h, fmt.Errorf("%w: params: %w", errMalformedHash, err)
	}

	var err error
	if h.salt, err = base64.RawStdEncoding.DecodeString(fields[4]); err != nil {
		return h, fmt.Errorf("%w: salt: %w", errMalformedHash, err)
	}
	if h.key, err = base64.RawStdEncoding.DecodeString(fields[5]); err != nil {
		return h, fmt.Errorf("%w: key: %w", errMalformedHash, err)
	}

	//nolint:gosec // G115: argon2 keys are 32 bytes
	p.keyLen = uint32(len(h.key))
	return h, nil
}

func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	h := storedHash{
		params: currentParams,
		salt:   salt,
		key:    currentParams.derive(password, salt),
	}
	return h.String(), nil
}

func VerifyPassword(password, encodedHash string) (bool, error) {
	h, err := parseStoredHash(encodedHash)
	if err != nil {
		return false, err
	}

	candidate := h.params.derive(password, h.salt)
	return subtle.ConstantTimeCompare(h.key, candidate) == 1, nil
}

func NeedsRehash(encodedHash string) bool {
	h, err := parseStoredHash(encodedHash)
	return err != nil || h.params != currentParams
}

// VerifyAndUpgrade verifies the password and, when the stored hash was made
// with older argon2 parameters, returns a replacement hash to persist.
func VerifyAndUpgrade(password, encodedHash string) (bool, string, error) {
	valid, err := VerifyPassword(password, encodedHash)
	switch {
	case err != nil || !valid:
		return false, "", err
	case !NeedsRehash(encodedHash):
		return true, "", nil
	}

	upgraded, err := HashPassword(password)
	if err != nil {
		//nolint:nilerr // password verified; upgrade is best effort
		return true, "", nil
	}
	return true, upgraded, nil
}

var (
	burnSalt = make([]byte, saltLength)
	burnKey  = make([]byte, currentParams.keyLen)
)

// BurnVerification spends the same argon2 work as a real verification.
// Login calls it for unknown usernames.
func BurnVerification(password string) {
	subtle.ConstantTimeCompare(burnKey, currentParams.derive(password, burnSalt))
}
