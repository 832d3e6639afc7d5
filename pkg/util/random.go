package util

import (
	"crypto/rand"
	"math/big"
)

const randomAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GetRandomString 生成指定长度的随机字符串
func GetRandomString(length int) string {
	out := make([]byte, length)
	max := big.NewInt(int64(len(randomAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			out[i] = randomAlphabet[i%len(randomAlphabet)]
			continue
		}
		out[i] = randomAlphabet[n.Int64()]
	}
	return string(out)
}
