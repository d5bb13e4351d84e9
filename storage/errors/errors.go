// orcstripe/storage/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
)

// ErrorCode 错误分类码
type ErrorCode int

const (
	// 通用错误
	ErrUnknown ErrorCode = iota
	ErrInvalidArgument
	ErrNotSupported

	// 文件格式错误
	ErrCorruptedFile
	ErrInvalidColumn

	// 编码错误
	ErrDecodeFailed
	ErrCompressionFailed
	ErrConversionFailed
	ErrLengthMismatch

	// I/O 错误
	ErrIO
	ErrUnexpectedEOF

	ErrBufferTooSmall
)

func (c ErrorCode) String() string {
	switch c {
	case ErrUnknown:
		return "Unknown"
	case ErrInvalidArgument:
		return "InvalidArgument"
	case ErrNotSupported:
		return "NotSupported"
	case ErrCorruptedFile:
		return "CorruptedFile"
	case ErrInvalidColumn:
		return "InvalidColumn"
	case ErrDecodeFailed:
		return "DecodeFailed"
	case ErrCompressionFailed:
		return "CompressionFailed"
	case ErrConversionFailed:
		return "ConversionFailed"
	case ErrLengthMismatch:
		return "LengthMismatch"
	case ErrIO:
		return "IO"
	case ErrUnexpectedEOF:
		return "UnexpectedEOF"
	case ErrBufferTooSmall:
		return "BufferTooSmall"
	default:
		return fmt.Sprintf("ErrorCode(%d)", c)
	}
}

// ErrorSeverity 错误严重程度
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota // 可恢复，可忽略
	SeverityError                        // 当前列解码失败，其他列不受影响
	SeverityFatal                        // 数据损坏，整个 stripe 不可信
)

// OrcError is the structured error returned by every package of this module.
type OrcError struct {
	Code     ErrorCode              // 错误码
	Severity ErrorSeverity          // 严重程度
	Op       string                 // 操作描述（如 "decode_rle_v2", "read_present"）
	Stream   string                 // 关联的 stream（如 "column=3 kind=DATA"）
	Offset   int64                  // stream 内偏移（-1 表示未知）
	Err      error                  // 原始错误（错误链）
	Context  map[string]interface{} // 额外上下文
}

func (e *OrcError) Error() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("[%s:%s]", e.Code, e.Op))

	if e.Stream != "" {
		if e.Offset >= 0 {
			parts = append(parts, fmt.Sprintf("stream=%s offset=%d", e.Stream, e.Offset))
		} else {
			parts = append(parts, fmt.Sprintf("stream=%s", e.Stream))
		}
	} else if e.Offset >= 0 {
		parts = append(parts, fmt.Sprintf("offset=%d", e.Offset))
	}

	if len(e.Context) > 0 {
		parts = append(parts, "context="+formatContext(e.Context))
	}

	if e.Err != nil {
		parts = append(parts, fmt.Sprintf("cause=%v", e.Err))
	}

	return "orc error: " + strings.Join(parts, " | ")
}

// formatContext renders the context map with sorted keys so messages are stable.
func formatContext(ctx map[string]interface{}) string {
	keys := make([]string, 0, len(ctx))
	for k := range ctx {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%v", k, ctx[k])
	}
	sb.WriteByte('}')
	return sb.String()
}

// Unwrap 支持 errors.As/Is
func (e *OrcError) Unwrap() error {
	return e.Err
}

// IsCode 判断错误码是否匹配
func (e *OrcError) IsCode(code ErrorCode) bool {
	return e.Code == code
}

// WithContext 添加上下文（链式调用）
func (e *OrcError) WithContext(key string, value interface{}) *OrcError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ErrorBuilder builds an *OrcError fluently.
type ErrorBuilder struct {
	err *OrcError
}

func New(code ErrorCode) *ErrorBuilder {
	return &ErrorBuilder{
		err: &OrcError{
			Code:     code,
			Severity: SeverityError,
			Offset:   -1,
			Context:  make(map[string]interface{}),
		},
	}
}

func (b *ErrorBuilder) Op(op string) *ErrorBuilder {
	b.err.Op = op
	return b
}

func (b *ErrorBuilder) Stream(stream string) *ErrorBuilder {
	b.err.Stream = stream
	return b
}

func (b *ErrorBuilder) Offset(offset int64) *ErrorBuilder {
	b.err.Offset = offset
	return b
}

func (b *ErrorBuilder) Wrap(err error) *ErrorBuilder {
	b.err.Err = err
	return b
}

func (b *ErrorBuilder) Severity(s ErrorSeverity) *ErrorBuilder {
	b.err.Severity = s
	return b
}

func (b *ErrorBuilder) Context(key string, value interface{}) *ErrorBuilder {
	b.err.Context[key] = value
	return b
}

func (b *ErrorBuilder) Build() error {
	return b.err
}

// InvalidArg 创建参数错误
func InvalidArg(op string, msg string) error {
	return New(ErrInvalidArgument).Op(op).Context("message", msg).Build()
}

// NotSupported reports a format feature this reader does not implement.
func NotSupported(op string, feature string) error {
	return New(ErrNotSupported).Op(op).Context("feature", feature).Build()
}

// IO wraps a read failure from a byte source. io.ErrUnexpectedEOF maps to
// ErrUnexpectedEOF so callers can tell truncation apart from other failures.
func IO(op string, stream string, err error) error {
	code := ErrIO
	if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
		code = ErrUnexpectedEOF
	}
	return New(code).Op(op).Stream(stream).Wrap(err).Build()
}

// Is 判断错误是否属于某类错误码
func Is(err error, code ErrorCode) bool {
	if err == nil {
		return false
	}

	var oe *OrcError
	if errors.As(err, &oe) {
		if oe.Code == code {
			return true
		}
		// 递归检查 cause
		if oe.Err != nil {
			return Is(oe.Err, code)
		}
	}

	return false
}

// IsAny 判断是否属于任何一类错误码
func IsAny(err error, codes ...ErrorCode) bool {
	for _, code := range codes {
		if Is(err, code) {
			return true
		}
	}
	return false
}

// IsFatal 判断错误是否致命
func IsFatal(err error) bool {
	var oe *OrcError
	if errors.As(err, &oe) {
		return oe.Severity == SeverityFatal
	}
	return false
}

// GetCode 获取错误码（如果不是 OrcError 返回 ErrUnknown）
func GetCode(err error) ErrorCode {
	var oe *OrcError
	if errors.As(err, &oe) {
		return oe.Code
	}
	return ErrUnknown
}

// As is errors.As, re-exported so callers importing this package under the
// name "errors" keep access to it.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
