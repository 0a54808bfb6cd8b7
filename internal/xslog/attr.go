package xslog

import (
	"log/slog"
	"time"
)

func Error(err error) slog.Attr {
	const errorKey = "error"
	return slog.String(errorKey, err.Error())
}

func File(name string) slog.Attr {
	const fileKey = "file"
	return slog.String(fileKey, name)
}

func Count(count int) slog.Attr {
	const countKey = "count"
	return slog.Int(countKey, count)
}

func Duration(duration time.Duration) slog.Attr {
	const durationKey = "duration"
	return slog.Duration(durationKey, duration)
}

func Seconds(n int) slog.Attr {
	const secondsKey = "seconds"
	return slog.Int(secondsKey, n)
}

func CoefficientSet(name string) slog.Attr {
	const setKey = "coefficient_set"
	return slog.String(setKey, name)
}

func Path(p string) slog.Attr {
	const pathKey = "path"
	return slog.String(pathKey, p)
}
