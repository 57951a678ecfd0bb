package chatid

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"

	"github.com/Fanyuxuan0817/StudySync/internal/domain/apperr"
)

// alphabet excludes visually ambiguous characters (0/O and 1/I/l).
const alphabet = "ABCDEFGHIJKLMNPQRSTUVWXYZ23456789"

const (
	MinLength = 6
	MaxLength = 8

	maxAttemptsPerLength = 10
)

// ExistsFunc probes the durable store for a candidate id.
type ExistsFunc func(ctx context.Context, chatID string) (bool, error)

// Generator allocates short, human-typable room identifiers, escalating the
// length on collision.
type Generator struct {
	exists ExistsFunc
}

func NewGenerator(exists ExistsFunc) *Generator {
	return &Generator{exists: exists}
}

func (g *Generator) Generate(ctx context.Context) (string, error) {
	for length := MinLength; length <= MaxLength; length++ {
		for attempt := 0; attempt < maxAttemptsPerLength; attempt++ {
			id, err := random(length)
			if err != nil {
				return "", fmt.Errorf("generate chat id: %w", err)
			}

			taken, err := g.exists(ctx, id)
			if err != nil {
				return "", fmt.Errorf("check chat id uniqueness: %w", err)
			}
			if !taken {
				return id, nil
			}
		}
	}

	return "", apperr.New(apperr.Unavailable, "could not allocate a unique chat id")
}

func random(length int) (string, error) {
	// 256 is not a multiple of the alphabet size, so bytes past the last
	// full cycle are rejected to keep every character equally likely.
	const limit = 256 - 256%len(alphabet)

	out := make([]byte, 0, length)
	buf := make([]byte, length)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}

// Valid reports whether an externally supplied id has a legal length and uses
// only alphabet characters.
func Valid(chatID string) bool {
	if len(chatID) < MinLength || len(chatID) > MaxLength {
		return false
	}

	for _, c := range chatID {
		if !strings.ContainsRune(alphabet, c) {
			return false
		}
	}

	return true
}

// Normalize uppercases user input before validation or lookup.
func Normalize(chatID string) string {
	return strings.ToUpper(strings.TrimSpace(chatID))
}

// FormatForDisplay groups the id in blocks of three for readability.
func FormatForDisplay(chatID string) string {
	if len(chatID) <= 4 {
		return chatID
	}

	var b strings.Builder
	for i := 0; i < len(chatID); i++ {
		if i > 0 && i%3 == 0 {
			b.WriteByte('-')
		}
		b.WriteByte(chatID[i])
	}

	return b.String()
}
