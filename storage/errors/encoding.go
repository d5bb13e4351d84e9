// orcstripe/storage/errors/encoding.go
package errors

import "fmt"

// DecodeFailed 解码失败（控制字节或 payload 无法解析）
func DecodeFailed(decoder string, offset int64, reason string) error {
	return New(ErrDecodeFailed).
		Op(fmt.Sprintf("decode_%s", decoder)).
		Offset(offset).
		Context("decoder", decoder).
		Context("reason", reason).
		Severity(SeverityFatal).
		Build()
}

// UnexpectedEOF 意外EOF：run 或值在读取中途耗尽了 stream
func UnexpectedEOF(decoder string, offset int64, err error) error {
	return New(ErrUnexpectedEOF).
		Op(fmt.Sprintf("decode_%s", decoder)).
		Offset(offset).
		Context("decoder", decoder).
		Wrap(err).
		Severity(SeverityFatal).
		Build()
}

// LengthMismatch is returned when the length stream asks for more bytes than
// the value stream still holds.
func LengthMismatch(offset int64, requested, available int) error {
	return New(ErrLengthMismatch).
		Op("read_values").
		Offset(offset).
		Context("requested_bytes", requested).
		Context("available_bytes", available).
		Severity(SeverityFatal).
		Build()
}

// ConversionFailed 值转换失败（如日期溢出）
func ConversionFailed(op string, value interface{}, reason string) error {
	return New(ErrConversionFailed).
		Op(op).
		Context("value", value).
		Context("reason", reason).
		Build()
}

// DecompressFailed 解压失败
func DecompressFailed(codec string, offset int64, err error) error {
	return New(ErrCompressionFailed).
		Op(fmt.Sprintf("%s_decompress", codec)).
		Offset(offset).
		Context("codec", codec).
		Wrap(err).
		Severity(SeverityFatal).
		Build()
}
