//go:build js

package dataset

func MarshalParquet([]Row) ([]byte, error) {
	return nil, ErrParquetUnsupported
}
