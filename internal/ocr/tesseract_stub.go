//go:build !cgo || !linux

package ocr

import "image"

const backendName = "none"

func recognize(image.Image, string) (string, error) {
	return "", ErrOCRUnavailable
}

func tesseractVersion() (string, error) {
	return "", ErrOCRUnavailable
}
