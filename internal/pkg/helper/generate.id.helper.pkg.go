package helper

import gonanoid "github.com/matoous/go-nanoid/v2"

const (
	urlAlphabet   = "useandom-26T198340PX75pxJACKVERYMINDBUSHWOLF_GQZbfghjklqvwyzrict"
	digitAlphabet = "0123456789"
)

func GenerateID() (string, error) {
	id, err := gonanoid.Generate(urlAlphabet, 16)
	if err != nil {
		return "", err
	}
	return id, nil
}

// GenerateCode returns a numeric one-time code of the given length.
func GenerateCode(length int) (string, error) {
	return gonanoid.Generate(digitAlphabet, length)
}
