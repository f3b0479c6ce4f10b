package utils

import (
	"crypto/md5"
	"encoding/hex"
	"io"
)

// HashReader returns the MD5 hash of the given reader. Spill segments
// record this hash at write time and are re-verified against it before
// being merged back.
func HashReader(r io.Reader) (string, error) {
	h := md5.New()
	_, err := io.Copy(h, r)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
