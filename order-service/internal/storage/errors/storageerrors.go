package storerrros

import "errors"

var ErrOrderNotFound = errors.New("order not found")
