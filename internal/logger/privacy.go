package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strings"
)

var hashSalt string

// InitHashSalt loads the hash salt from the environment. In production, set
// LOG_HASH_SALT; without it a fixed development salt is used.
func InitHashSalt() {
	hashSalt = os.Getenv("LOG_HASH_SALT")
	if hashSalt == "" {
		hashSalt = "default-salt-change-in-production"
	}
}

func init() {
	InitHashSalt()
}

// HashUserID maps a user ID to a short salted hash so log lines can be
// correlated per user without recording the ID itself.
func HashUserID(userID int64) string {
	data := fmt.Sprintf("%d:%s", userID, hashSalt)
	hash := sha256.Sum256([]byte(data))
	// 8 hex chars keeps lines readable and is plenty for correlation.
	return hex.EncodeToString(hash[:])[:8]
}

// SanitizeDescription replaces a user-entered expense description with its
// word and character counts, which is all debugging usually needs.
func SanitizeDescription(desc string) string {
	if desc == "" {
		return "<empty>"
	}

	words := strings.Fields(desc)
	return fmt.Sprintf("<redacted: %d words, %d chars>", len(words), len(desc))
}
