package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// hashKey returns "<keyType>:<sha256 of parts>". Collection pages hash
// (userID, page, size) so every page key has the same length whatever the
// user id looks like.
func hashKey(keyType string, parts ...any) string {
	data, _ := json.Marshal(parts)
	return keyType + ":" + Hash(data)
}

// Hash returns the hex SHA-256 of data. Clients use a prefix of it to
// scope keys per backend URL.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
