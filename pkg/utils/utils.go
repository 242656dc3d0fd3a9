package utils

import (
	"crypto/rand"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type IUtils interface {
	NewULIDFromTimestamp(t time.Time) (string, error)
	NewAssetName(originalFilename string) (string, error)
}

type utils struct{}

func New() IUtils {
	return &utils{}
}

func (u *utils) NewULIDFromTimestamp(t time.Time) (string, error) {
	ms := ulid.Timestamp(t)
	entropy := ulid.Monotonic(rand.Reader, 0)

	id, err := ulid.New(ms, entropy)
	if err != nil {
		return "", err
	}

	return id.String(), nil
}

// NewAssetName returns a random storage name that keeps only the lower-cased
// extension of the uploaded file.
func (u *utils) NewAssetName(originalFilename string) (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}

	ext := FileExtension(originalFilename)
	if ext == "" {
		return id.String(), nil
	}
	return id.String() + "." + ext, nil
}

// FileExtension returns the lower-cased text after the final dot, or "" when
// the name has no dot.
func FileExtension(filename string) string {
	idx := strings.LastIndex(filename, ".")
	if idx < 0 || idx == len(filename)-1 {
		return ""
	}
	return strings.ToLower(filename[idx+1:])
}
