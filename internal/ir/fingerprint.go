package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for fingerprint computation. The version suffix
// enables future algorithm migration.
const (
	DomainExpr = "fable/ir/expr/v1"
	DomainFile = "fable/ir/file/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Fingerprint computes the content identity of an expression. Equal
// trees fingerprint equally regardless of source positions.
func Fingerprint(e Expr) string {
	return hashWithDomain(DomainExpr, []byte(Canonical(e)))
}

// FileFingerprint computes the content identity of a lowered file.
// It is stable across runs given the same input, which is what the
// precompilation map keys on.
func FileFingerprint(f *File) string {
	return hashWithDomain(DomainFile, []byte(CanonicalFile(f)))
}
