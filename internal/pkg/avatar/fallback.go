package avatar

import (
	"crypto/md5"
	"fmt"
	"strings"
)

// FallbackURL returns a Gravatar URL for accounts whose provider supplied
// no image.
func FallbackURL(email string, size int) string {
	if size <= 0 {
		size = 200
	}

	email = strings.ToLower(strings.TrimSpace(email))
	hash := md5.Sum([]byte(email))

	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?s=%d&d=mp", hash, size)
}
