package storerrros

import "errors"

var ErrBookNotFound = errors.New("book not found")
