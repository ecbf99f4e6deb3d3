//go:build !amd64 && !arm64

package dispatch

func supported(Level) bool { return false }

func probe() Level { return Scalar }
