// services/logomatch.go
package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"
	"math/bits"
	"os"
	"strconv"

	"github.com/disintegration/imaging"
)

const (
	// Square resolution logos are normalized to before hashing
	logoNormalizedSize = 256
	// Downsample grid the hash bits are derived from (8x8 = 64 bits)
	hashGridSize = 8
	// LogoMatchThreshold is the maximum Hamming distance between two logo
	// hashes still considered the same mark.
	LogoMatchThreshold = 10
)

var (
	ErrImageDecode     = errors.New("logo image could not be decoded")
	ErrNoReferenceHash = errors.New("organization has no stored logo hash")
)

// ComputeLogoHash derives the 64-bit average hash of an image: resize to a
// fixed square, grayscale, downsample to an 8x8 grid and set one bit per cell
// above the mean luminance. Identical bytes always produce the identical
// hash, encoded as 16 hex characters.
func ComputeLogoHash(data []byte) (string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return "", ErrImageDecode
	}

	normalized := imaging.Resize(img, logoNormalizedSize, logoNormalizedSize, imaging.Lanczos)
	gray := imaging.Grayscale(normalized)
	grid := imaging.Resize(gray, hashGridSize, hashGridSize, imaging.Lanczos)

	luminance := gridLuminance(grid)
	var sum uint64
	for _, l := range luminance {
		sum += uint64(l)
	}
	mean := sum / uint64(len(luminance))

	var hash uint64
	for i, l := range luminance {
		if uint64(l) >= mean {
			hash |= 1 << uint(63-i)
		}
	}
	// fixed 16-char encoding so distances compare position for position
	return fmt.Sprintf("%016x", hash), nil
}

// gridLuminance reads the grayscale grid row by row. Grayscale output has
// equal channels, so the red channel is the luminance.
func gridLuminance(grid image.Image) []uint32 {
	bounds := grid.Bounds()
	values := make([]uint32, 0, hashGridSize*hashGridSize)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, _, _, _ := grid.At(x, y).RGBA()
			values = append(values, r)
		}
	}
	return values
}

// ComputeLogoHashFromFile hashes a temporary uploaded image and deletes the
// file on every exit path, decode failures included.
func ComputeLogoHashFromFile(path string) (string, error) {
	defer os.Remove(path)

	data, err := os.ReadFile(path)
	if err != nil {
		return "", ErrImageDecode
	}
	return ComputeLogoHash(data)
}

// HashDistance is the Hamming distance between two logo hashes. An absent or
// malformed hash yields MaxInt, which no threshold accepts.
func HashDistance(a, b string) int {
	if a == "" || b == "" || len(a) != len(b) {
		return math.MaxInt
	}
	x, errA := strconv.ParseUint(a, 16, 64)
	y, errB := strconv.ParseUint(b, 16, 64)
	if errA != nil || errB != nil {
		return math.MaxInt
	}
	return bits.OnesCount64(x ^ y)
}

// LogoMatches reports whether two hashes are within the match threshold
func LogoMatches(a, b string) bool {
	return HashDistance(a, b) <= LogoMatchThreshold
}
