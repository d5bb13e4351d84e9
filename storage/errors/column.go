// orcstripe/storage/errors/column.go
package errors

// InvalidColumn 列缺少必需的 stream
func InvalidColumn(name string, stream string) error {
	return New(ErrInvalidColumn).
		Op("resolve_stream").
		Stream(stream).
		Context("column", name).
		Build()
}

// BufferTooSmall 缓冲区太小
func BufferTooSmall(op string, required, available int) error {
	return New(ErrBufferTooSmall).
		Op(op).
		Context("required_bytes", required).
		Context("available_bytes", available).
		Build()
}

// ColumnName extracts the column name attached by InvalidColumn, if any.
func ColumnName(err error) (string, bool) {
	var oe *OrcError
	if !As(err, &oe) {
		return "", false
	}
	name, ok := oe.Context["column"].(string)
	return name, ok
}
