package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// DomainRender separates render hashes from any other use of sha256 in the
// archive. The version suffix leaves room for changing the algorithm.
const DomainRender = "csgen/render/v1"

// hashWithDomain computes SHA256(domain + 0x00 + data).
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash returns the content address of a rendered score. Identical
// text always hashes identically, so repeated renders of a deterministic
// score can be recognised in the archive.
func ContentHash(rendered string) string {
	return hashWithDomain(DomainRender, []byte(rendered))
}
