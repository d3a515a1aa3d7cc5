package helpers

import (
	"io"

	"github.com/gamedb/gridview/pkg/log"
	"github.com/pkg/errors"
)

// IgnoreErrors returns nil if an error is one of the provided errors, returns the provided error otherwise.
func IgnoreErrors(err error, errs ...error) error {

	if len(errs) == 0 {
		panic("Using IgnoreErrors wrong")
	}

	for _, v := range errs {
		if errors.Is(err, v) {
			return nil
		}
	}

	return err
}

func Close(closer io.Closer) {

	if closer == nil {
		return
	}

	err := closer.Close()
	if err != nil {
		log.ErrS(err)
	}
}
