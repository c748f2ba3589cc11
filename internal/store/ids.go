package store

import "encoding/hex"

// idLength is the length of a record identity in its hex form.
const idLength = 24

// ValidID reports whether s is a well-formed record identity (24 hex
// characters). Both engines use the same identity shape, so the check stays
// engine-independent. A malformed identity is a BadRequest at the call site,
// never a store round-trip.
//
// ValidID 报告s是否为格式正确的记录标识（24个十六进制字符）。
// 两种引擎使用相同的标识形状，因此检查与引擎无关。格式错误的标识
// 在调用点即为BadRequest，绝不进行存储往返。
func ValidID(s string) bool {
	if len(s) != idLength {
		return false
	}
	_, err := hex.DecodeString(s)
	return err == nil
}
