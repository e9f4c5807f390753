// Package slug derives URL identifiers for articles.
package slug

import (
	"crypto/rand"
	"math/big"
	"strings"

	gslug "github.com/gosimple/slug"
)

const (
	suffixLen = 6
	alphabet  = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// Make returns slugified title plus "-" and a random base36 suffix,
// e.g. "how-to-train-your-dragon-k3x9q0". Titles with no slug-able
// characters yield the suffix alone.
func Make(title string) string {
	base := gslug.Make(title)
	if base == "" {
		return suffix()
	}
	return base + "-" + suffix()
}

func suffix() string {
	var b strings.Builder
	b.Grow(suffixLen)
	max := big.NewInt(int64(len(alphabet)))
	for i := 0; i < suffixLen; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("slug: crypto/rand unavailable: " + err.Error())
		}
		b.WriteByte(alphabet[n.Int64()])
	}
	return b.String()
}
