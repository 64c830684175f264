package graph

import (
	"strconv"

	"github.com/minio/highwayhash"
)

var key = []byte("0123456789ABCDEF0123456789ABCDEF")

// Hash returns highwayhash 64 bit digest of data
func Hash(data []byte) (uint64, error) {
	hash, err := highwayhash.New64(key)
	if err != nil {
		return 0, err
	}
	_, err = hash.Write(data)
	return hash.Sum64(), err
}

// Digest returns hex encoded Hash of data
func Digest(data []byte) (string, error) {
	value, err := Hash(data)
	if err != nil {
		return "", err
	}
	return strconv.FormatUint(value, 16), nil
}
