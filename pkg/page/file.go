package page

import (
	"io"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/matzehuels/glitchzine/pkg/errors"
)

// ReadFrom reads a whole document from r and normalizes it to NFC.
// Invalid UTF-8 is an input error. ReadFrom does not close r.
func ReadFrom(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "read")
	}
	if !utf8.Valid(data) {
		return "", errors.New(errors.ErrCodeInvalidInput, "input is not valid UTF-8")
	}
	return norm.NFC.String(string(data)), nil
}

// Read loads the document at path. A missing file is FILE_NOT_FOUND; any
// other failure is IO_ERROR.
func Read(path string) (string, error) {
	if err := errors.ValidatePath(path); err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.Wrap(errors.ErrCodeFileNotFound, err, "input %s", path)
		}
		return "", errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	text, err := ReadFrom(f)
	if err != nil {
		return "", errors.Wrap(errors.GetCode(err), err, "%s", path)
	}
	return text, nil
}

// WriteTo writes html to w.
func WriteTo(w io.Writer, html string) error {
	if _, err := io.WriteString(w, html); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write")
	}
	return nil
}

// Write stores html at path, creating parent directories as needed.
func Write(path, html string) error {
	if err := errors.ValidatePath(path); err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "create output directory %s", dir)
		}
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	return nil
}
